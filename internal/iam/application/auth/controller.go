package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/user"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/rest_err"
)

// SessionWriter grava e apaga o cookie de sessão.
type SessionWriter interface {
	Save(c *gin.Context, token string, expire time.Time) error
	Clear(c *gin.Context) error
}

type Controller interface {
	Routes(routes gin.IRouter)
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	CreateOTP(c *gin.Context)
	ResetPassword(c *gin.Context)
	Me(c *gin.Context)
}

type controllerImpl struct {
	service  Service
	sessions SessionWriter
	mw       *middleware.Middleware
	limiter  *middleware.IPRateLimiter
	audit    *auditoria_log.Service
}

func NewController(service Service, sessions SessionWriter, mw *middleware.Middleware, limiter *middleware.IPRateLimiter, audit *auditoria_log.Service) Controller {
	return &controllerImpl{
		service:  service,
		sessions: sessions,
		mw:       mw,
		limiter:  limiter,
		audit:    audit,
	}
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	authGroup := routes.Group("/auth")
	{
		limited := authGroup.Group("", ctrl.limiter.Middleware())
		limited.POST("/register", ctrl.Register)
		limited.POST("/login", ctrl.Login)
		limited.POST("/otp", ctrl.CreateOTP)
		limited.POST("/password/reset", ctrl.ResetPassword)

		authGroup.POST("/logout", ctrl.mw.SetContextAutorization(), ctrl.Logout)
		authGroup.GET("/me", ctrl.mw.SetContextAutorization(), ctrl.Me)
	}
}

func (ctrl *controllerImpl) logAudit(c *gin.Context, entry auditoria_log.AuditLog) {
	ctrl.audit.LogAsync(c.Request.Context(), entry)
}

func anonymousEntry(c *gin.Context, identifier, action, function string, success bool, input, output interface{}) auditoria_log.AuditLog {
	entry := access.AuditEntry(c, "auth", action, function, success, input, output)
	entry.Identifier = identifier
	return entry
}

// @Summary Cria uma empresa e o seu Admin
// @Router /api/auth/register [post]
func (ctrl *controllerImpl) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}

	created, err := ctrl.service.Register(c.Request.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Business: req.Business,
	})
	req.Password = ""
	if err != nil {
		var restErr *rest_err.RestErr
		switch {
		case errors.Is(err, ErrBusinessExists):
			restErr = rest_err.NewConflictValidationError(err.Error(), []rest_err.Causes{rest_err.NewCause("business", "already registered")})
		case errors.Is(err, ErrEmailExists):
			restErr = rest_err.NewConflictValidationError(err.Error(), []rest_err.Causes{rest_err.NewCause("email", "already registered")})
		case errors.Is(err, ErrInvalidBusiness):
			restErr = rest_err.NewBadRequestValidationError(err.Error(), []rest_err.Causes{rest_err.NewCause("business", err.Error())})
		default:
			logger.FromGin(c).Error("[AUTH] falha no cadastro", zap.Error(err))
			restErr = rest_err.NewInternalServerError("internal server error", nil)
		}
		ctrl.logAudit(c, anonymousEntry(c, req.Email, "register", "Register", false, req, restErr))
		rest_err.Respond(c, restErr)
		return
	}

	resp := user.ToResponse(created)
	ctrl.logAudit(c, anonymousEntry(c, created.Email, "register", "Register", true, req, resp))
	c.JSON(http.StatusCreated, resp)
}

// @Summary Efetua o login do usuário
// @Description Autentica email e senha, grava o cookie de sessão e devolve o token.
// @Router /api/auth/login [post]
func (ctrl *controllerImpl) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	auditReq := LoginRequest{Email: req.Email}

	uLogin, err := ctrl.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var restErr *rest_err.RestErr
		switch {
		case errors.Is(err, ErrPwdWrong):
			restErr = rest_err.NewUnauthorizedError(err.Error())
		case errors.Is(err, ErrUserDisabled):
			restErr = rest_err.NewForbiddenError(err.Error())
		case errors.Is(err, ErrTokenDuplicated):
			restErr = rest_err.NewConflictValidationError(err.Error(), nil)
		default:
			logger.FromGin(c).Error("[AUTH] falha no login", zap.Error(err))
			restErr = rest_err.NewInternalServerError("internal server error", nil)
		}
		ctrl.logAudit(c, anonymousEntry(c, req.Email, "login", "Login", false, auditReq, restErr))
		rest_err.Respond(c, restErr)
		return
	}

	if ctrl.sessions != nil {
		if err := ctrl.sessions.Save(c, uLogin.AcessToken.Token, uLogin.AcessToken.Expiry); err != nil {
			logger.FromGin(c).Warn("[AUTH] falha ao gravar cookie de sessão", zap.Error(err))
		}
	}

	response := LoginResponse{
		User:   user.ToResponse(uLogin.User),
		Token:  uLogin.AcessToken.Token,
		Expire: uLogin.AcessToken.Expiry,
	}

	entry := anonymousEntry(c, uLogin.User.Email, "login", "Login", true, auditReq, gin.H{"user": response.User, "expire": response.Expire})
	entry.Business = uLogin.User.Business
	entry.UserUUID = &uLogin.User.UUID
	ctrl.logAudit(c, entry)

	c.JSON(http.StatusOK, response)
}

// @Summary Revoga o token de acesso atual e apaga o cookie
// @Router /api/auth/logout [post]
func (ctrl *controllerImpl) Logout(c *gin.Context) {
	a, _ := access.Get(c)
	if err := ctrl.service.RevokeAcessToken(c.Request.Context(), a.Token); err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			logger.FromGin(c).Error("[AUTH] falha ao revogar token", zap.Error(err))
			rest_err.Respond(c, rest_err.NewInternalServerError("internal server error", nil))
			return
		}
	}
	if ctrl.sessions != nil {
		_ = ctrl.sessions.Clear(c)
	}
	ctrl.logAudit(c, access.AuditEntry(c, "auth", "logout", "Logout", true, nil, nil))
	c.Status(http.StatusAccepted)
}

// @Summary Solicita um código OTP por email
// @Router /api/auth/otp [post]
func (ctrl *controllerImpl) CreateOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}

	if err := ctrl.service.CreateOTPCode(c.Request.Context(), req.Email); err != nil {
		var restErr *rest_err.RestErr
		switch {
		case errors.Is(err, OTPCodeExist):
			restErr = rest_err.NewConflictValidationError(err.Error(), nil)
		case errors.Is(err, user.ErrNotFound):
			restErr = rest_err.NewNotFoundError(err.Error())
		case errors.Is(err, mailer.ErrMailerNotInitialized):
			causes := []rest_err.Causes{rest_err.NewCause("Mailer", "mailer not initialized")}
			restErr = rest_err.NewInternalServerError("internal server error", causes)
		default:
			logger.FromGin(c).Error("[AUTH] falha ao enviar OTP", zap.Error(err))
			restErr = rest_err.NewInternalServerError("internal server error", nil)
		}
		rest_err.Respond(c, restErr)
		return
	}

	c.Status(http.StatusAccepted)
}

// @Summary Troca a senha usando OTP
// @Router /api/auth/password/reset [post]
func (ctrl *controllerImpl) ResetPassword(c *gin.Context) {
	var req OTPResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}

	err := ctrl.service.ChangeUserPwd(c.Request.Context(), req.OTPCode, req.Email, req.Password)
	if err != nil {
		var restErr *rest_err.RestErr
		switch {
		case errors.Is(err, OTPCodeWrong):
			restErr = rest_err.NewForbiddenError(err.Error())
		default:
			logger.FromGin(c).Error("[AUTH] falha ao trocar senha", zap.Error(err))
			restErr = rest_err.NewInternalServerError("internal server error", nil)
		}
		ctrl.logAudit(c, anonymousEntry(c, req.Email, "password_reset", "ResetPassword", false, OTPRequest{Email: req.Email}, restErr))
		rest_err.Respond(c, restErr)
		return
	}

	ctrl.logAudit(c, anonymousEntry(c, req.Email, "password_reset", "ResetPassword", true, OTPRequest{Email: req.Email}, nil))
	c.Status(http.StatusOK)
}

// @Summary Dados do usuário logado, plano e módulos liberados
// @Router /api/auth/me [get]
func (ctrl *controllerImpl) Me(c *gin.Context) {
	a, ok := access.Get(c)
	if !ok {
		rest_err.Respond(c, rest_err.NewForbiddenError("user not authorized"))
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User: user.UserResponseDto{
			UUID:     a.UserUUID,
			Business: a.Business,
			Name:     a.Name,
			Email:    a.Email,
			Role:     a.Role,
			Live:     true,
		},
		Business:      a.Business,
		Plan:          a.Plan,
		Active:        a.Active,
		Entitlements:  a.Entitlements,
		SystemTimeUTC: time.Now().UTC(),
	})
}
