package handler

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

const (
	sessionFlashType    = "flash_type"
	sessionFlashMessage = "flash_message"
)

// putFlash stores a message shown on the next rendered page.
func putFlash(ctx context.Context, sm *scs.SessionManager, typ, msg string) {
	sm.Put(ctx, sessionFlashType, typ)
	sm.Put(ctx, sessionFlashMessage, msg)
}

// popFlash removes and returns the pending message, or nil when there is none.
func popFlash(ctx context.Context, sm *scs.SessionManager) *Flash {
	msg := sm.PopString(ctx, sessionFlashMessage)
	typ := sm.PopString(ctx, sessionFlashType)
	if msg == "" {
		return nil
	}
	return &Flash{Type: typ, Message: msg}
}
