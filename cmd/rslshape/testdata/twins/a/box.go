package shape

type Box struct {
	W int32
}
