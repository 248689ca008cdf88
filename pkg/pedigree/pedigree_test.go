package pedigree

import (
	"errors"
	"reflect"
	"testing"
)

func mustAdd(t *testing.T, p *Pedigree, id int, parents ...int) {
	t.Helper()
	if _, err := p.Add(id, parents...); err != nil {
		t.Fatalf("Add(%d, %v): %v", id, parents, err)
	}
}

func buildTrio(t *testing.T) *Pedigree {
	t.Helper()
	p := New()
	mustAdd(t, p, 3, 1, 2)
	mustAdd(t, p, 1)
	mustAdd(t, p, 2)
	return p
}

func TestAddAndAdjacency(t *testing.T) {
	p := buildTrio(t)

	if got := p.VertexCount(); got != 3 {
		t.Fatalf("VertexCount() = %d, want 3", got)
	}
	if got := p.Parents(3); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Parents(3) = %v, want [1 2]", got)
	}
	if got := p.Children(1); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Children(1) = %v, want [3]", got)
	}
	if got := p.Founders(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Founders() = %v, want [1 2]", got)
	}
	if got := p.Sinks(); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Sinks() = %v, want [3]", got)
	}
}

func TestAddSelfMating(t *testing.T) {
	p := New()
	mustAdd(t, p, 2, 1, 1)

	if got := p.Parents(2); !reflect.DeepEqual(got, []int{1, 1}) {
		t.Errorf("Parents(2) = %v, want [1 1]", got)
	}
	// The downward edge appears once.
	if got := p.Children(1); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Children(1) = %v, want [2]", got)
	}
}

func TestAddReplacesDuplicate(t *testing.T) {
	p := New()
	mustAdd(t, p, 1)
	mustAdd(t, p, 2)
	mustAdd(t, p, 3, 1)

	replaced, err := p.Add(3, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !replaced {
		t.Error("Add did not report replacement")
	}
	if got := p.Parents(3); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Parents(3) = %v, want [2]", got)
	}
	if got := p.Children(1); len(got) != 0 {
		t.Errorf("Children(1) = %v after replacement, want empty", got)
	}
}

func TestAddTooManyParents(t *testing.T) {
	p := New()
	if _, err := p.Add(4, 1, 2, 3); !errors.Is(err, ErrTooManyParents) {
		t.Errorf("Add() error = %v, want ErrTooManyParents", err)
	}
}

func TestReduce(t *testing.T) {
	// 5 descends from 3 and 4; 6 is an unrelated line.
	p := New()
	mustAdd(t, p, 1)
	mustAdd(t, p, 2)
	mustAdd(t, p, 3, 1, 2)
	mustAdd(t, p, 4, 1, 2)
	mustAdd(t, p, 5, 3, 4)
	mustAdd(t, p, 9)
	mustAdd(t, p, 6, 9)

	reduced, err := p.Reduce([]int{5})
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got := reduced.Vertices(); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("Vertices() = %v, want [1 2 3 4 5]", got)
	}
	if got := reduced.Sinks(); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("Sinks() = %v, want [5]", got)
	}
	// The original is untouched.
	if !p.Has(6) || !p.Has(9) {
		t.Error("Reduce mutated the receiver")
	}
}

func TestReduceUnknownProband(t *testing.T) {
	p := buildTrio(t)
	if _, err := p.Reduce([]int{42}); !errors.Is(err, ErrUnknownVertex) {
		t.Errorf("Reduce() error = %v, want ErrUnknownVertex", err)
	}
}

func TestLevels(t *testing.T) {
	p := New()
	mustAdd(t, p, 1)
	mustAdd(t, p, 2)
	mustAdd(t, p, 3, 1, 2)
	mustAdd(t, p, 4, 1, 2)
	mustAdd(t, p, 5, 3, 4)

	levels, err := p.Levels()
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	want := [][]int{{5}, {3, 4}, {1, 2}}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}
}

func TestLevelsUnevenDepth(t *testing.T) {
	// 1 is both a grandparent and a parent of the sink: its level follows
	// its deepest child.
	p := New()
	mustAdd(t, p, 1)
	mustAdd(t, p, 2, 1)
	mustAdd(t, p, 3, 2, 1)

	levels, err := p.Levels()
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	want := [][]int{{3}, {2}, {1}}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}
}
