package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"eco-route-go/internal/emissions"
	"eco-route-go/internal/format"
	"eco-route-go/internal/service"
	"eco-route-go/internal/session"
	"eco-route-go/internal/ui"
	"eco-route-go/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/jszwec/csvutil"
	g "github.com/maragudk/gomponents"
	"github.com/sirupsen/logrus"
)

const sessionKey = "session"

// UIHandler serves the planner page and its htmx fragments
type UIHandler struct {
	store        *session.Store
	cookieMaxAge int
	secureCookie bool
	logger       *logrus.Logger
}

// NewUIHandler creates a new UIHandler
func NewUIHandler(store *session.Store, cookieMaxAge int, secureCookie bool, logger *logrus.Logger) *UIHandler {
	return &UIHandler{
		store:        store,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// RegisterRoutes registers the page and fragment routes
func (h *UIHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.withSession, h.Index)

	frag := router.Group("/ui", h.withSession)
	{
		frag.POST("/routes", h.SubmitRoutes)
		frag.POST("/routes/:index/select", h.SelectRoute)
		frag.POST("/routes/:index/legs", h.ToggleLegs)
		frag.GET("/routes.csv", h.ExportCSV)
		frag.POST("/emissions-details", h.RequestDetails)
		frag.GET("/emissions-details/button", h.DetailButton)
		frag.POST("/waypoints", h.AddWaypoint)
		frag.DELETE("/waypoints/:id", h.RemoveWaypoint)
		frag.POST("/traffic", h.ToggleTraffic)
		frag.POST("/map/failure", h.MapFailure)
	}
}

// withSession attaches the caller's session, starting one when the cookie
// is missing or stale. The cookie is reissued on every request so its
// lifetime slides with the session's.
func (h *UIHandler) withSession(c *gin.Context) {
	id, _ := c.Cookie(session.CookieName)
	sess, _ := h.store.GetOrCreate(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sess.ID, h.cookieMaxAge, "/", "", h.secureCookie, true)
	c.Set(sessionKey, sess)
	c.Next()
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// render writes each node in turn as one HTML response.
func (h *UIHandler) render(c *gin.Context, status int, nodes ...g.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := n.Render(c.Writer); err != nil {
			h.logger.WithError(err).Error("Failed to render fragment")
			return
		}
	}
}

// results renders the results block with the map state sent out of band.
func (h *UIHandler) results(c *gin.Context, sess *session.Session) {
	snap := sess.Controller.Snapshot()
	h.render(c, http.StatusOK,
		view.Results(snap, sess.Alerts.Drain()),
		view.MapState(snap.Map, true),
	)
}

// Index renders the full page
func (h *UIHandler) Index(c *gin.Context) {
	sess := current(c)
	h.render(c, http.StatusOK, view.Page(sess.Controller.Snapshot(), sess.Alerts.Drain()))
}

// SubmitRoutes runs a route search from the posted form
func (h *UIHandler) SubmitRoutes(c *gin.Context) {
	sess := current(c)
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	form := ui.Form{
		Origin:            c.PostForm("origin"),
		Destination:       c.PostForm("destination"),
		Mode:              c.PostForm("mode"),
		VehicleType:       c.PostForm("vehicle-type"),
		OptimizeWaypoints: c.PostForm("optimize-waypoints") == "true",
		Waypoints:         make(map[string]string),
	}
	for key, values := range c.Request.PostForm {
		if strings.HasPrefix(key, "waypoint-") && len(values) > 0 {
			form.Waypoints[key] = values[0]
		}
	}

	sess.Controller.Submit(c.Request.Context(), form)
	h.results(c, sess)
}

// SelectRoute makes one route the selected route
func (h *UIHandler) SelectRoute(c *gin.Context) {
	sess := current(c)
	index, err := strconv.Atoi(c.Param("index"))
	if err == nil {
		err = sess.Controller.Select(index)
	}
	if err != nil {
		h.logger.WithError(err).WithField("index", c.Param("index")).Warn("Invalid route selection")
		c.String(http.StatusBadRequest, ui.ErrInvalidRouteIndex.Error())
		return
	}
	h.results(c, sess)
}

// ToggleLegs shows or hides the stop breakdown of one route
func (h *UIHandler) ToggleLegs(c *gin.Context) {
	sess := current(c)
	index, err := strconv.Atoi(c.Param("index"))
	if err == nil {
		_, err = sess.Controller.ToggleLegs(index)
	}
	if err != nil {
		c.String(http.StatusBadRequest, ui.ErrInvalidRouteIndex.Error())
		return
	}

	snap := sess.Controller.Snapshot()
	h.render(c, http.StatusOK, view.Results(snap, sess.Alerts.Drain()))
}

// RequestDetails fetches the detailed report for the selected route
func (h *UIHandler) RequestDetails(c *gin.Context) {
	sess := current(c)
	err := sess.Controller.RequestDetails(c.Request.Context(), c.PostForm("vehicle-type"))
	if errors.Is(err, ui.ErrNoRoutes) {
		c.String(http.StatusConflict, err.Error())
		return
	}
	h.results(c, sess)
}

// DetailButton renders the current state of the detail button
func (h *UIHandler) DetailButton(c *gin.Context) {
	sess := current(c)
	h.render(c, http.StatusOK, view.DetailButton(sess.Controller.Snapshot().Button))
}

// AddWaypoint appends an empty stop input
func (h *UIHandler) AddWaypoint(c *gin.Context) {
	field := current(c).Controller.AddWaypoint("")
	h.render(c, http.StatusOK, view.WaypointField(field))
}

// RemoveWaypoint deletes a stop input; the page fades the row out
func (h *UIHandler) RemoveWaypoint(c *gin.Context) {
	if !current(c).Controller.RemoveWaypoint(c.Param("id")) {
		c.String(http.StatusNotFound, "unknown waypoint")
		return
	}
	c.String(http.StatusOK, "")
}

// ToggleTraffic flips the traffic layer
func (h *UIHandler) ToggleTraffic(c *gin.Context) {
	sess := current(c)
	label := sess.Controller.ToggleTraffic()
	h.render(c, http.StatusOK,
		view.TrafficButton(label),
		view.MapState(sess.Controller.Snapshot().Map, true),
	)
}

// MapFailure switches the map area to its error panel
func (h *UIHandler) MapFailure(c *gin.Context) {
	sess := current(c)
	reason := c.PostForm("reason")
	if reason == "" {
		reason = "authentication failure"
	}
	sess.Controller.MapFailed(errors.New(reason))
	h.render(c, http.StatusOK, view.MapArea(sess.Controller.Snapshot().Map))
}

// ExportCSV downloads the current route list
func (h *UIHandler) ExportCSV(c *gin.Context) {
	snap := current(c).Controller.Snapshot()
	if len(snap.Routes) == 0 {
		c.String(http.StatusNotFound, ui.MsgNoRoutes)
		return
	}

	rows := make([]service.RouteCSVRow, len(snap.Routes))
	for i, route := range snap.Routes {
		rows[i] = service.RouteCSVRow{
			Route:            i + 1,
			Summary:          route.Summary,
			Duration:         format.Duration(route.TotalDurationSeconds),
			DurationSeconds:  route.TotalDurationSeconds,
			Distance:         format.Distance(route.TotalDistanceMeters),
			DistanceMeters:   route.TotalDistanceMeters,
			CarbonEmissionKg: route.CarbonEmissions,
			Band:             emissions.ListCard.Classify(route.CarbonEmissions),
			Selected:         i == snap.Selected,
		}
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode route CSV")
		c.String(http.StatusInternalServerError, "failed to export routes")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="routes.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
