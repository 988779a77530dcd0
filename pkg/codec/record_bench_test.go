//go:build bench
// +build bench

package codec

import (
	"testing"
)

func BenchmarkRecordCodec_Parse(b *testing.B) {
	codec := NewRecordCodec()
	line := "25,Pikachu,Electric,,320,35,55,40,50,50,90,1,False"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Parse(line); err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
	}
}

func BenchmarkRecordCodec_Format(b *testing.B) {
	codec := NewRecordCodec()
	p := pikachu()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = codec.Format(p)
	}
}

func BenchmarkKeyOf(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = KeyOf("Charizard")
	}
}
