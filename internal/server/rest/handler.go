package rest

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/filex"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) healthcheck(c *gin.Context) {
	respond(c, http.StatusOK, "ok", gin.H{"status": "ok"})
}

// bindError answers a request whose body could not be bound.
func (s *HTTPServer) bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abortWithStatus(c, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if details, required, ok := fieldErrors(err); ok {
		msg := "invalid request data"
		if required {
			msg = "all fields are required"
		}
		abortWithError(c, s.logger, common.NewError(common.KindBadRequest, msg, details...))
		return
	}
	abortWithError(c, s.logger, common.WrapError(common.KindBadRequest, "invalid request body", err))
}

// spool saves the uploaded file of the given form field into the upload
// directory. A missing file yields (nil, nil).
func (s *HTTPServer) spool(c *gin.Context, field string) (*services.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, common.WrapError(common.KindBadRequest, "invalid "+field+" file", err)
	}

	dst := filex.TempPath(s.uploadDir, fh.Filename)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return nil, common.Internal(err)
	}
	return &services.Upload{LocalPath: dst, Filename: fh.Filename}, nil
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		s.bindError(c, err)
		return
	}

	avatar, err := s.spool(c, "avatar")
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}
	cover, err := s.spool(c, "coverImage")
	if err != nil {
		if avatar != nil {
			_ = os.Remove(avatar.LocalPath)
		}
		abortWithError(c, s.logger, err)
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	respond(c, http.StatusCreated, "user registered successfully", toPublicUser(user))
}

func (s *HTTPServer) setSessionCookies(c *gin.Context, p *services.TokenPair) {
	s.cookies.Set(c, common.AccessTokenCookieName, p.AccessToken, s.accessTTL)
	s.cookies.Set(c, common.RefreshTokenCookieName, p.RefreshToken, s.refreshTTL)
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}

	res, err := s.users.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	s.setSessionCookies(c, res.Tokens)
	respond(c, http.StatusOK, "user logged in successfully", loginResponse{
		User:         toPublicUser(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	})
}

func (s *HTTPServer) logout(c *gin.Context) {
	if err := s.users.Logout(c.Request.Context(), c.GetString(ctxUserIDKey)); err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	s.cookies.Delete(c, common.AccessTokenCookieName)
	s.cookies.Delete(c, common.RefreshTokenCookieName)
	respond(c, http.StatusOK, "user logged out", nil)
}

// refreshToken reads the refresh token from its cookie, falling back to the
// refreshToken field of a JSON body.
func (s *HTTPServer) refreshToken(c *gin.Context) {
	token := s.cookies.Get(c, common.RefreshTokenCookieName)
	if token == "" && c.Request.ContentLength != 0 {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			s.bindError(c, err)
			return
		}
		token = req.RefreshToken
	}

	pair, err := s.users.Refresh(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	s.setSessionCookies(c, pair)
	respond(c, http.StatusOK, "access token refreshed", toTokensResponse(pair))
}

func (s *HTTPServer) currentUser(c *gin.Context) {
	user, err := s.users.CurrentUser(c.Request.Context(), c.GetString(ctxUserIDKey))
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, "current user fetched successfully", toPublicUser(user))
}
