package waves

import "testing"

func BenchmarkStepDemo(b *testing.B) {
	f, err := New(DefaultParams())
	if err != nil {
		b.Fatal(err)
	}
	f.Disturb(80, 80, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Step()
	}
}

func BenchmarkDisturb(b *testing.B) {
	f, err := New(DefaultParams())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Disturb(1+i%158, 1+(i/158)%158, 0.01)
	}
}

func TestStepSwapsBuffers(t *testing.T) {
	f, err := New(Params{Rows: 5, Cols: 5, SpatialStep: 1, TimeStep: 0.03, Speed: 3.25, Damping: 0.4})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	f.Disturb(2, 2, 1)
	before := f.buf[f.cur]

	f.Step()

	if &f.buf[1-f.cur][0] != &before[0] {
		t.Error("expected previous current buffer to become the previous solution")
	}
	if f.buf[1-f.cur][f.Index(2, 2)][1] != 0.5 {
		t.Errorf("expected previous solution to keep the disturbed height, got %f", f.buf[1-f.cur][f.Index(2, 2)][1])
	}
}
