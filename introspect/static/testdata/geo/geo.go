package geo

type Point struct {
	X, Y float64
}

type Line struct {
	From, To Point
	Label    string `rsl:"label"`
}

type Opaque struct {
	handle uintptr
}

type Unit int
