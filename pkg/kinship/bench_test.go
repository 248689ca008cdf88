package kinship

import "testing"

func benchmarkCalculate(b *testing.B, backend Backend) {
	parents, sinks := randomPedigree(50, 30, 1)
	children := childrenOf(parents)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Calculate(children, parents, sinks, Options{Backend: backend}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCalculateTimeOptimised(b *testing.B)   { benchmarkCalculate(b, TimeOptimised) }
func BenchmarkCalculateMemoryOptimised(b *testing.B) { benchmarkCalculate(b, MemoryOptimised) }

func BenchmarkStorePutGet(b *testing.B) {
	for _, backend := range []Backend{TimeOptimised, MemoryOptimised} {
		b.Run(backend.String(), func(b *testing.B) {
			s := newStore(backend)
			for v := 0; v < 256; v++ {
				s.putSelf(v, 0.5)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.putPair(i%256, (i+1)%256, 0.25)
				if _, err := s.get(i%256, (i+1)%256); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
