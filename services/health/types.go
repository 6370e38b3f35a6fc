package health

type Service interface {
	Echo() bool
}

type Impl struct {
	isConnected func() bool
}
