package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dariovidovic/NWP-LV7/db"
	"github.com/dariovidovic/NWP-LV7/internal/auth"
	"github.com/dariovidovic/NWP-LV7/internal/domain"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"github.com/dariovidovic/NWP-LV7/internal/session"
	"github.com/dariovidovic/NWP-LV7/internal/stores"
	"github.com/dariovidovic/NWP-LV7/internal/types"
	"github.com/dariovidovic/NWP-LV7/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	FirstName       string `form:"first_name" binding:"required"`
	LastName        string `form:"last_name" binding:"required"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

func ShowRegister(ctx *gin.Context) {
	flash := session.Take(ctx)
	ctx.HTML(http.StatusOK, "register.html", gin.H{
		"SuccessMessage": flash.Success,
		"ErrorMessage":   flash.Error,
	})
}

func ShowLogin(ctx *gin.Context) {
	flash := session.Take(ctx)
	ctx.HTML(http.StatusOK, "login.html", gin.H{
		"SuccessMessage": flash.Success,
		"ErrorMessage":   flash.Error,
	})
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBind(&req); err != nil {
		session.SetError(ctx, "All fields are required")
		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	if len(req.Password) < 8 {
		session.SetError(ctx, "Password must be at least 8 characters long")
		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	if req.Password != req.ConfirmPassword {
		session.SetError(ctx, "Passwords do not match")
		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	userStore := stores.NewUserStore(db.DB)

	taken, err := userStore.EmailTaken(req.Email)

	if err != nil {
		log.Printf("Failed to check existing user: %v", err)
		ctx.String(http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	if taken {
		session.SetError(ctx, "Email is already registered")
		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.String(http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	newUser := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	if err := userStore.Create(&newUser); err != nil {
		if domain.Code(err) == domain.CodeValidation {
			session.SetError(ctx, err.Error())
			ctx.Redirect(http.StatusFound, "/register")
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.String(http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	session.SetSuccess(ctx, "Registration successful")
	ctx.Redirect(http.StatusFound, "/")
}

func Login(ctx *gin.Context) {
	if ctx.ContentType() == "application/json" {
		loginJSON(ctx)
		return
	}

	var req LoginRequest

	if err := ctx.ShouldBind(&req); err != nil {
		session.SetError(ctx, "Invalid email or password")
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := verifyCredentials(req.Email, req.Password)

	if err != nil {
		if domain.Code(err) == domain.CodeAuth {
			session.SetError(ctx, err.Error())
			ctx.Redirect(http.StatusFound, "/login")
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.String(http.StatusInternalServerError, "An error occurred during login")
		return
	}

	if err := session.SetIdentity(ctx, user.ID, user.Email, user.FirstName, user.LastName); err != nil {
		log.Printf("Failed to save session: %v", err)
		ctx.String(http.StatusInternalServerError, "An error occurred during login")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

// loginJSON is the API variant: instead of binding the session it returns a
// bearer token for subsequent requests.
func loginJSON(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := verifyCredentials(req.Email, req.Password)

	if err != nil {
		if domain.Code(err) == domain.CodeAuth {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": types.UserResponse{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	})
}

// verifyCredentials resolves the email and checks the password hash. Both
// failure modes return the same auth error so account existence never leaks.
func verifyCredentials(email, password string) (*models.User, error) {
	user, err := stores.NewUserStore(db.DB).FindByEmail(email)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewAuth("Invalid email or password")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.NewAuth("Invalid email or password")
	}

	return user, nil
}

func Logout(ctx *gin.Context) {
	if err := session.ClearIdentity(ctx); err != nil {
		log.Printf("Error destroying session: %v", err)
	}

	ctx.Redirect(http.StatusFound, "/login")
}

func Home(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	flash := session.Take(ctx)

	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"FullName":       currentUser.FullName(),
		"SuccessMessage": flash.Success,
		"ErrorMessage":   flash.Error,
	})
}
