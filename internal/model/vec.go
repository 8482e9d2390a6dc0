package model

import "math"

// Vec2 представляет точку на плоскости земли (X, Y в координатах мира).
// Value type, передаётся по значению (immutable).
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 точка в мире: X/Z лежат на плоскости, Y это высота над землёй.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Add возвращает сумму векторов.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub возвращает разность векторов.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// LengthSquared возвращает квадрат длины (без sqrt для производительности).
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length возвращает длину вектора.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// DistanceSquared возвращает квадрат расстояния до другой точки.
// Все проверки пересечений и зоны исключения идут только через эту функцию,
// чтобы результат был побитово одинаковым во всех местах.
func (v Vec2) DistanceSquared(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// Lift поднимает точку плоскости в мир на высоту height.
// Y плоскости становится Z мира.
func (v Vec2) Lift(height float64) Vec3 {
	return Vec3{X: v.X, Y: height, Z: v.Y}
}

// Ground возвращает проекцию мировой точки на плоскость земли.
func (v Vec3) Ground() Vec2 {
	return Vec2{X: v.X, Y: v.Z}
}
