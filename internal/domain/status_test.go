package domain

import "testing"

func TestClassify(t *testing.T) {
	const (
		critical = 5
		reorder  = 20
	)

	tests := []struct {
		name     string
		quantity int64
		want     StockStatus
	}{
		{"zero is critical", 0, StatusCritical},
		{"at critical threshold", 5, StatusCritical},
		{"just above critical", 6, StatusLow},
		{"at reorder threshold", 20, StatusLow},
		{"just above reorder", 21, StatusNormal},
		{"large quantity", 1000, StatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.quantity, critical, reorder)
			if got != tt.want {
				t.Errorf("Classify(%d) = %s, want %s", tt.quantity, got, tt.want)
			}
		})
	}
}

// Классификация тотальна и разбивает неотрицательные числа на три непересекающихся интервала.
func TestClassify_Partition(t *testing.T) {
	const (
		critical = 7
		reorder  = 15
	)

	for q := int64(0); q <= 100; q++ {
		got := Classify(q, critical, reorder)

		var want StockStatus
		switch {
		case q <= critical:
			want = StatusCritical
		case q <= reorder:
			want = StatusLow
		default:
			want = StatusNormal
		}

		if got != want {
			t.Fatalf("Classify(%d) = %s, want %s", q, got, want)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify(10, 5, 20)
	for i := 0; i < 100; i++ {
		if got := Classify(10, 5, 20); got != first {
			t.Fatalf("classification is not deterministic: %s vs %s", got, first)
		}
	}
}
