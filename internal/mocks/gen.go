package mocks

//go:generate sh -c "go run go.uber.org/mock/mockgen -package mocks -destination solver.go github.com/quic-go/fecwindow/internal/fec Solver"
