package logger

import (
	"log/slog"

	"github.com/zkchannel-org/zkchannel/types"
)

/*
Log attribute key values. Generally shouldn't be used directly, use the
appropriate "attribute constructor function" instead.

Only define names here if they are common for multiple modules, module
specific names should be defined in the module.
*/
const (
	ErrorKey       = "err"
	ModuleKey      = "module"
	ExecutionIDKey = "execution_id"
	AddrKey        = "addr"
	SlotKey        = "slot"
	StatusKey      = "status"
	SignatureKey   = "signature"
)

/*
Error adds error to the log

	if err := f(); err != nil {
		log.Error("calling f", logger.Error(err))
	}
*/
func Error(err error) slog.Attr {
	return slog.Any(ErrorKey, err)
}

// ExecutionID identifies the tracked execution request a logging call
// relates to. Components tracking a single request should create a
// sub-logger with logger.With() rather than adding it per call.
func ExecutionID(id string) slog.Attr {
	return slog.String(ExecutionIDKey, id)
}

func Addr(addr types.Address) slog.Attr {
	return slog.String(AddrKey, addr.String())
}

func Slot(slot types.Slot) slog.Attr {
	return slog.Uint64(SlotKey, slot)
}

func Status(status string) slog.Attr {
	return slog.String(StatusKey, status)
}

func Signature(sig types.Signature) slog.Attr {
	return slog.String(SignatureKey, string(sig))
}

func Module(name string) slog.Attr {
	return slog.String(ModuleKey, name)
}
