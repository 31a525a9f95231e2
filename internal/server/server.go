package server

// Server объединяет HTTP серверы отдельных сущностей.
type Server struct {
	DealServer
	BuyerServer
}

func NewServer(
	dealServer DealServer,
	buyerServer BuyerServer,
) Server {
	return Server{
		DealServer:  dealServer,
		BuyerServer: buyerServer,
	}
}
