package chrono

import (
	"testing"

	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestdataInputs(t *testing.T) {
	testCases := []struct {
		file string
		want string
		seed uint64
	}{
		{"testdata/sample.txt", "4,6,3,5,6,3,5,2,1,0", 0},
		{"testdata/quine.txt", "5,7,3,0", 117440},
	}
	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			in, err := program.ParseFile(tc.file)
			require.NoError(t, err)
			m, err := NewMachine(in.Code, DefaultBackend())
			require.NoError(t, err)
			defer m.Close()

			assert.Equal(t, tc.want, chronotypes.FormatDigits(m.Run(in.Registers)))
			res, err := FindQuine(m, in.Code, QuineOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.seed, res.Seed)
		})
	}
}

func BenchmarkBackends(b *testing.B) {
	in, err := program.ParseFile("testdata/quine.txt")
	if err != nil {
		b.Fatalf("Failed to read input: %v", err)
	}
	for _, backend := range Backends() {
		m, err := NewMachine(in.Code, backend)
		if err != nil {
			b.Fatalf("❌ [%s] failed: %v", backend, err)
		}
		b.Run("run_"+backend, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				m.Execute(117440, 0, 0)
			}
		})
		b.Run("quine_"+backend, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := FindQuine(m, in.Code, QuineOptions{}); err != nil {
					b.Fatalf("❌ [%s] failed: %v", backend, err)
				}
			}
		})
		m.Close()
	}
}
