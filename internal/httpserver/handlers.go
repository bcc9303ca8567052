package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-web/internal/dashboard"
	"storefront-web/internal/domain"
	sessionsvc "storefront-web/internal/service/session"
	"storefront-web/internal/storefront"
)

var loginNotices = map[string]string{
	"expired": "Your session has expired. Please log in again.",
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

func (h *handlers) page(c *gin.Context, title string) pageData {
	return pageData{Title: title, RequestID: c.GetString(ctxRequestIDKey)}
}

func (h *handlers) home(c *gin.Context) {
	data := h.page(c, "Home")
	data.Home = storefront.HomePage()
	data.Identity = h.optionalIdentity(c)
	c.HTML(http.StatusOK, "home.html", data)
}

// optionalIdentity is the signed-in identity for pages that do not
// require a session, or nil.
func (h *handlers) optionalIdentity(c *gin.Context) *domain.Identity {
	sid, _ := sessions.Default(c).Get(cookieSessionKey).(string)
	if sid == "" {
		return nil
	}
	handle, err := h.deps.Sessions.Lookup(c.Request.Context(), sid)
	if err != nil {
		return nil
	}
	identity := handle.CurrentIdentity()
	return &identity
}

func (h *handlers) loginPage(c *gin.Context) {
	data := h.page(c, "Log In")
	data.Login.Notice = loginNotices[c.Query("notice")]
	c.HTML(http.StatusOK, "login.html", data)
}

func (h *handlers) login(c *gin.Context) {
	email := c.PostForm("email")
	handle, err := h.deps.Sessions.Start(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, sessionsvc.ErrCredentialsRequired) {
			status = http.StatusBadRequest
		}
		h.logger.Info("login rejected", zap.String("request_id", c.GetString(ctxRequestIDKey)), zap.Error(err))
		data := h.page(c, "Log In")
		data.Login = loginForm{Email: email, Error: err.Error()}
		c.HTML(status, "login.html", data)
		return
	}

	store := sessions.Default(c)
	store.Set(cookieSessionKey, handle.ID())
	if err := store.Save(); err != nil {
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *handlers) logout(c *gin.Context) {
	handle := sessionHandle(c)
	h.deps.Dashboards.Drop(handle.ID())
	if err := handle.EndSession(c.Request.Context()); err != nil {
		h.logger.Warn("end session", zap.String("session_id", handle.ID()), zap.Error(err))
	}
	clearSessionCookie(sessions.Default(c), h.logger)
	c.Redirect(http.StatusSeeOther, "/")
}

// board returns the session's dashboard, opening it on first use.
func (h *handlers) board(c *gin.Context) (*dashboard.Dashboard, *sessionsvc.Handle) {
	handle := sessionHandle(c)
	d := h.deps.Dashboards.Open(c.Request.Context(), handle.ID(), handle, h.deps.API(handle.Token()))
	return d, handle
}

// rejected ends a session the API no longer accepts. It reports whether
// the response has been written.
func (h *handlers) rejected(c *gin.Context, d *dashboard.Dashboard, handle *sessionsvc.Handle) bool {
	if !d.SessionRejected() {
		return false
	}
	h.deps.Dashboards.Drop(handle.ID())
	if err := handle.EndSession(c.Request.Context()); err != nil {
		h.logger.Warn("end rejected session", zap.String("session_id", handle.ID()), zap.Error(err))
	}
	clearSessionCookie(sessions.Default(c), h.logger)
	denyAccess(c, "expired")
	return true
}

func (h *handlers) waitForLoads(ctx context.Context, d *dashboard.Dashboard) {
	ctx, cancel := context.WithTimeout(ctx, h.deps.RenderWait)
	defer cancel()
	_ = d.Wait(ctx)
}

func (h *handlers) dashboardPage(c *gin.Context) {
	d, handle := h.board(c)
	if raw := c.Query("section"); raw != "" {
		section, err := dashboard.ParseSection(raw)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
		if err := d.Select(c.Request.Context(), section); err != nil {
			_ = c.Error(err)
		}
	}
	h.waitForLoads(c.Request.Context(), d)
	if h.rejected(c, d, handle) {
		return
	}

	view := d.Snapshot()
	data := h.page(c, "My Account")
	data.Identity = &view.Identity
	data.View = view
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// backTo finishes a form post with a redirect to the panel it came from.
func (h *handlers) backTo(c *gin.Context, d *dashboard.Dashboard, handle *sessionsvc.Handle, section dashboard.Section) {
	if h.rejected(c, d, handle) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard?section="+string(section))
}

func (h *handlers) beginProfileEdit(c *gin.Context) {
	d, handle := h.board(c)
	d.BeginProfileEdit()
	h.backTo(c, d, handle, dashboard.SectionProfile)
}

func (h *handlers) cancelProfileEdit(c *gin.Context) {
	d, handle := h.board(c)
	d.CancelProfileEdit()
	h.backTo(c, d, handle, dashboard.SectionProfile)
}

func (h *handlers) submitProfile(c *gin.Context) {
	d, handle := h.board(c)
	draft := domain.ProfileDraft{Name: c.PostForm("name"), Phone: c.PostForm("phone")}
	if err := d.SubmitProfile(c.Request.Context(), draft); err != nil {
		_ = c.Error(err)
	}
	h.backTo(c, d, handle, dashboard.SectionProfile)
}

func (h *handlers) submitPassword(c *gin.Context) {
	d, handle := h.board(c)
	req := domain.PasswordChange{
		Current: c.PostForm("current"),
		New:     c.PostForm("new"),
		Confirm: c.PostForm("confirm"),
	}
	if err := d.SubmitPasswordChange(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
	}
	h.backTo(c, d, handle, dashboard.SectionProfile)
}

func (h *handlers) uploadPhoto(c *gin.Context) {
	d, handle := h.board(c)
	photo, err := readPhoto(c)
	if err != nil {
		h.logger.Info("photo form unreadable", zap.Error(err))
		h.backTo(c, d, handle, dashboard.SectionProfile)
		return
	}
	if err := d.UploadPhoto(c.Request.Context(), photo); err != nil {
		_ = c.Error(err)
	}
	h.backTo(c, d, handle, dashboard.SectionProfile)
}

// readPhoto reads the "photo" part. Anything past the size cap is cut so
// the dashboard sees an oversized file and rejects it.
func readPhoto(c *gin.Context) (domain.Photo, error) {
	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return domain.Photo{}, nil
	}
	if err != nil {
		return domain.Photo{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Photo{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, dashboard.MaxPhotoBytes+1))
	if err != nil {
		return domain.Photo{}, err
	}
	return domain.Photo{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *handlers) beginAddressEdit(c *gin.Context) {
	d, handle := h.board(c)
	d.BeginAddressEdit()
	h.backTo(c, d, handle, dashboard.SectionAddresses)
}

func (h *handlers) cancelAddressEdit(c *gin.Context) {
	d, handle := h.board(c)
	d.CancelAddressEdit()
	h.backTo(c, d, handle, dashboard.SectionAddresses)
}

func (h *handlers) submitAddress(c *gin.Context) {
	d, handle := h.board(c)
	addr := domain.ShippingAddress{
		FirstName:     c.PostForm("firstName"),
		LastName:      c.PostForm("lastName"),
		StreetAddress: c.PostForm("streetAddress"),
		Apartment:     c.PostForm("apartment"),
		City:          c.PostForm("city"),
		State:         c.PostForm("state"),
		PinCode:       c.PostForm("pinCode"),
		Country:       c.PostForm("country"),
		Phone:         c.PostForm("phone"),
	}
	if err := d.SubmitAddress(c.Request.Context(), addr); err != nil {
		_ = c.Error(err)
	}
	h.backTo(c, d, handle, dashboard.SectionAddresses)
}

func (h *handlers) submitTicket(c *gin.Context) {
	d, handle := h.board(c)
	draft := domain.SupportTicketDraft{Subject: c.PostForm("subject"), Message: c.PostForm("message")}
	if err := d.SubmitTicket(draft); err != nil {
		_ = c.Error(err)
	}
	h.backTo(c, d, handle, dashboard.SectionSupport)
}

func (h *handlers) referralQR(c *gin.Context) {
	handle := sessionHandle(c)
	png, err := h.deps.QR.PNG(dashboard.ReferralCode(handle.CurrentIdentity()))
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}

type selectSectionRequest struct {
	Section string `json:"section" binding:"required"`
}

func (h *handlers) dashboardJSON(c *gin.Context) {
	d, handle := h.board(c)
	if c.Query("wait") == "true" {
		h.waitForLoads(c.Request.Context(), d)
	}
	if h.rejected(c, d, handle) {
		return
	}
	c.JSON(http.StatusOK, d.Snapshot())
}

func (h *handlers) selectSectionJSON(c *gin.Context) {
	var req selectSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "section is required"})
		return
	}
	section, err := dashboard.ParseSection(req.Section)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	d, handle := h.board(c)
	if err := d.Select(c.Request.Context(), section); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if h.rejected(c, d, handle) {
		return
	}
	c.JSON(http.StatusOK, d.Snapshot())
}
