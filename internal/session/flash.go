package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccessKey = "successMessage"
	flashErrorKey   = "errorMessage"
)

// Flash is the one-shot message slot: set by a handler, consumed and cleared
// by exactly one subsequent render.
type Flash struct {
	Success string
	Error   string
}

func SetSuccess(ctx *gin.Context, message string) {
	sess := sessions.Default(ctx)
	sess.Set(flashSuccessKey, message)
	_ = sess.Save()
}

func SetError(ctx *gin.Context, message string) {
	sess := sessions.Default(ctx)
	sess.Set(flashErrorKey, message)
	_ = sess.Save()
}

// Take returns the pending messages and clears both slots in the same call.
func Take(ctx *gin.Context) Flash {
	sess := sessions.Default(ctx)

	var flash Flash

	if message, ok := sess.Get(flashSuccessKey).(string); ok {
		flash.Success = message
	}

	if message, ok := sess.Get(flashErrorKey).(string); ok {
		flash.Error = message
	}

	if flash.Success != "" || flash.Error != "" {
		sess.Delete(flashSuccessKey)
		sess.Delete(flashErrorKey)
		_ = sess.Save()
	}

	return flash
}
