package app

import (
	"github.com/bft-labs/docship/internal/ports"
	"github.com/bft-labs/docship/pkg/log"
)

func orDiscard(l ports.Logger) ports.Logger {
	return log.OrDiscard(l)
}
