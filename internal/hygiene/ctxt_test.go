package hygiene

import (
	"sync"
	"testing"
)

func TestFreshIsUniqueAndOrdered(t *testing.T) {
	a := NewAllocator()
	first := a.Fresh(Root)
	second := a.Fresh(Root)
	if first == second {
		t.Fatalf("fresh contexts must differ")
	}
	if !(first < second) {
		t.Fatalf("contexts must be minted in increasing order: %v, %v", first, second)
	}
	if first.IsRoot() || !Root.IsRoot() {
		t.Fatalf("IsRoot mismatch")
	}
	if a.Len() != 2 {
		t.Fatalf("len: got %d", a.Len())
	}
}

func TestParentChain(t *testing.T) {
	a := NewAllocator()
	module := a.Fresh(Root)
	fn := a.Fresh(module)
	block := a.Fresh(fn)
	private := a.Fresh(Root)

	if a.Parent(block) != fn || a.Parent(fn) != module || a.Parent(module) != Root {
		t.Fatalf("unexpected parent chain")
	}
	if a.Parent(Root) != Root {
		t.Fatalf("root must be its own parent")
	}
	if !a.IsDescendant(block, module) {
		t.Fatalf("block must descend from module")
	}
	if !a.IsDescendant(module, module) {
		t.Fatalf("a context descends from itself")
	}
	if a.IsDescendant(private, module) {
		t.Fatalf("private context must not descend from module")
	}
	if !a.IsDescendant(private, Root) {
		t.Fatalf("every context descends from root")
	}
}

func TestParentOfForeignContextPanics(t *testing.T) {
	a := NewAllocator()
	b := NewAllocator()
	c := b.Fresh(Root)
	b.Fresh(c)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for foreign context")
		}
	}()
	a.Parent(c + 1)
}

func TestConcurrentMinting(t *testing.T) {
	a := NewAllocator()
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[Ctxt]bool, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]Ctxt, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, a.Fresh(Root))
			}
			mu.Lock()
			defer mu.Unlock()
			for _, c := range local {
				if seen[c] {
					t.Errorf("context %v minted twice", c)
				}
				seen[c] = true
			}
		}()
	}
	wg.Wait()
	if len(seen) != workers*perWorker {
		t.Fatalf("got %d distinct contexts", len(seen))
	}
}
