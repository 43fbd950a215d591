//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
)

func TestZeroSeedIsReproducible(t *testing.T) {
	f1 := NewFakerWithSeed(0)
	f2 := NewFakerWithSeed(0)

	for i := 0; i < 20; i++ {
		v1 := f1.Int(0, 1<<30)
		v2 := f2.Int(0, 1<<30)
		if v1 != v2 {
			t.Fatalf("Seed 0 produced different values at draw %d: %d != %d", i, v1, v2)
		}
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
		p1 := f1.Float64(1, 10)
		p2 := f2.Float64(1, 10)
		if p1 != p2 {
			t.Errorf("Same seed produced different floats: %f != %f", p1, p2)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int %d not in range [5, 10]", v)
		}
	}
}

func TestFakerIntN(t *testing.T) {
	f := NewFakerWithSeed(1)
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		v := f.IntN(1, 3)
		if v < 1 || v >= 3 {
			t.Errorf("IntN %d not in range [1, 3)", v)
		}
		seen[v] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("IntN(1, 3) should produce both 1 and 2, got %v", seen)
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 100; i++ {
		v := f.Float64(1.0, 10.0)
		if v < 1.0 || v >= 10.0 {
			t.Errorf("Float64 %f not in range [1, 10)", v)
		}
	}
}

func TestFakerChance(t *testing.T) {
	f := NewFakerWithSeed(99)

	for i := 0; i < 50; i++ {
		if f.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !f.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}

	hits := 0
	iterations := 5000
	for i := 0; i < iterations; i++ {
		if f.Chance(0.2) {
			hits++
		}
	}
	rate := float64(hits) / float64(iterations)
	if rate < 0.15 || rate > 0.25 {
		t.Errorf("Chance(0.2) hit rate %.3f outside [0.15, 0.25]", rate)
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(7)
	items := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 100; i++ {
		chosen := Choose(f, items)
		found := false
		for _, item := range items {
			if item == chosen {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned item not in slice: %s", chosen)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFakerWithSeed(7)
	var items []string

	chosen := Choose(f, items)
	if chosen != "" {
		t.Errorf("Choose on empty slice should return zero value, got: %s", chosen)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(7)
	items := []string{"a", "b", "c"}
	weights := []int{1, 2, 7} // c should be chosen ~70% of the time

	counts := make(map[string]int)
	iterations := 1000

	for i := 0; i < iterations; i++ {
		chosen := ChooseWeighted(f, items, weights)
		counts[chosen]++
	}

	if counts["c"] < counts["a"] || counts["c"] < counts["b"] {
		t.Errorf("Weighted choice distribution unexpected: %v", counts)
	}
}

func TestChooseWeightedZeroWeight(t *testing.T) {
	f := NewFakerWithSeed(3)
	items := []string{"never", "always"}
	weights := []int{0, 5}

	for i := 0; i < 100; i++ {
		if got := ChooseWeighted(f, items, weights); got != "always" {
			t.Fatalf("zero-weight item chosen: %s", got)
		}
	}
}

func TestChooseWeightedEmpty(t *testing.T) {
	f := NewFakerWithSeed(7)
	var items []string
	var weights []int

	chosen := ChooseWeighted(f, items, weights)
	if chosen != "" {
		t.Errorf("ChooseWeighted on empty slices should return zero value, got: %s", chosen)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %s, want %s", tt.bytes, got, tt.want)
		}
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("transactions", 10, 0)
	if p.progressInterval != DefaultProgressInterval {
		t.Errorf("expected default interval, got %d", p.progressInterval)
	}
	p.Update(4)
	p.Update(6)
	if p.Rows() != 10 {
		t.Errorf("expected 10 rows, got %d", p.Rows())
	}
	p.Done()
}

// Benchmarks
func BenchmarkFakerInt(b *testing.B) {
	f := NewFakerWithSeed(7)
	for i := 0; i < b.N; i++ {
		f.Int(0, 1000)
	}
}

func BenchmarkChoose(b *testing.B) {
	f := NewFakerWithSeed(7)
	items := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < b.N; i++ {
		Choose(f, items)
	}
}

func BenchmarkChooseWeighted(b *testing.B) {
	f := NewFakerWithSeed(7)
	items := []string{"a", "b", "c", "d", "e"}
	weights := []int{1, 2, 3, 4, 5}
	for i := 0; i < b.N; i++ {
		ChooseWeighted(f, items, weights)
	}
}
