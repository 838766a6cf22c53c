package session

import (
	"github.com/dariovidovic/NWP-LV7/internal/types"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SetIdentity binds the authenticated user to the cookie session.
func SetIdentity(ctx *gin.Context, userID uint, email, firstName, lastName string) error {
	sess := sessions.Default(ctx)
	sess.Set(types.SessionUserID, userID)
	sess.Set(types.SessionEmail, email)
	sess.Set(types.SessionFirstName, firstName)
	sess.Set(types.SessionLastName, lastName)
	return sess.Save()
}

// ClearIdentity destroys the session content and expires the cookie.
func ClearIdentity(ctx *gin.Context) error {
	sess := sessions.Default(ctx)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}

// UserID returns the bound user id, or zero when no identity is attached.
func UserID(ctx *gin.Context) uint {
	sess := sessions.Default(ctx)
	id, ok := sess.Get(types.SessionUserID).(uint)
	if !ok {
		return 0
	}
	return id
}

func FullName(ctx *gin.Context) string {
	sess := sessions.Default(ctx)
	first, _ := sess.Get(types.SessionFirstName).(string)
	last, _ := sess.Get(types.SessionLastName).(string)
	if first == "" && last == "" {
		return ""
	}
	return first + " " + last
}
