package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 3, 4)))

	for b.Loop() {
		_, _ = m.Inverse()
	}
}

func BenchmarkNormalMatrix(b *testing.B) {
	m := Translate(V3(40, 0, 0)).Mul(RotateX(0.3)).Mul(Scale(V3(2, 1, 3)))

	for b.Loop() {
		_, _ = m.NormalMatrix()
	}
}

func BenchmarkBarycentric(b *testing.B) {
	a, c, d := V2(0, 0), V2(100, 0), V2(0, 100)
	p := V2(20, 30)

	for b.Loop() {
		_ = Barycentric(a, c, d, p)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view := LookAt(V3(0, 0, 10), V3(0, 0, 0), Up())
	proj := Perspective(math.Pi/3, 1.333, 0.1, 100.0)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}
