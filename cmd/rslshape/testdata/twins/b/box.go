package shape

type Box struct {
	W, H int64
}
