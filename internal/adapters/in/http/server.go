package http

import (
	"net/http"
	"strconv"
	"time"

	"shopdispatch/internal/core/application/usecases/commands"
	"shopdispatch/internal/core/application/usecases/queries"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/jobs"

	"github.com/labstack/echo/v4"
)

// ViewController opens and closes the reconciliation loops behind each view.
type ViewController interface {
	Open(domain jobs.Domain) error
	Close(domain jobs.Domain) error
	Resume(domain jobs.Domain) error
	Health(domain jobs.Domain) (jobs.DomainHealth, error)
}

// Handlers bundles the use cases the API exposes.
type Handlers struct {
	RespondToIssue        commands.RespondToIssueCommandHandler
	GetActiveShipments    queries.GetActiveShipmentsQueryHandler
	GetCompletedShipments queries.GetCompletedShipmentsQueryHandler
	GetRiderResponses     queries.GetRiderResponsesQueryHandler
	GetRiderPositions     queries.GetRiderPositionsQueryHandler
	GetIssues             queries.GetIssuesQueryHandler
	GetNotifications      queries.GetNotificationsQueryHandler
}

// Server serves the admin API on top of the held views.
type Server struct {
	handlers Handlers
	views    ViewController
	now      func() time.Time
}

func NewServer(handlers Handlers, views ViewController) *Server {
	return &Server{handlers: handlers, views: views, now: time.Now}
}

// Register mounts the routes and installs the validator and error handler.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(e)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")
	api.GET("/shipments/active", s.GetActiveShipments)
	api.GET("/shipments/completed", s.GetCompletedShipments)
	api.GET("/shipments/:id/responses", s.GetRiderResponses)
	api.GET("/riders/positions", s.GetRiderPositions)
	api.GET("/issues", s.GetIssues)
	api.GET("/issues/counts", s.GetIssueCounts)
	api.POST("/issues/:id/respond", s.RespondToIssue)
	api.GET("/notifications", s.GetNotifications)
	api.GET("/views/:domain", s.GetViewHealth)
	api.POST("/views/:domain/open", s.OpenView)
	api.POST("/views/:domain/close", s.CloseView)
	api.POST("/views/:domain/resume", s.ResumeView)
}

// GetActiveShipments handles GET /api/v1/shipments/active.
func (s *Server) GetActiveShipments(c echo.Context) error {
	resp, err := s.handlers.GetActiveShipments.Handle(queries.NewGetActiveShipmentsQuery())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetCompletedShipments handles GET /api/v1/shipments/completed?limit=N.
func (s *Server) GetCompletedShipments(c echo.Context) error {
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}

	query, err := queries.NewGetCompletedShipmentsQuery(limit)
	if err != nil {
		return err
	}

	resp, err := s.handlers.GetCompletedShipments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRiderResponses handles GET /api/v1/shipments/:id/responses.
func (s *Server) GetRiderResponses(c echo.Context) error {
	query, err := queries.NewGetRiderResponsesQuery(kernel.ID(c.Param("id")))
	if err != nil {
		return err
	}

	resp, err := s.handlers.GetRiderResponses.Handle(query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRiderPositions handles GET /api/v1/riders/positions.
func (s *Server) GetRiderPositions(c echo.Context) error {
	resp, err := s.handlers.GetRiderPositions.Handle(queries.NewGetRiderPositionsQuery())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetIssues handles GET /api/v1/issues?status=&shipmentId=&since=.
func (s *Server) GetIssues(c echo.Context) error {
	resp, err := s.issues(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetIssueCounts handles GET /api/v1/issues/counts with the same filters as GetIssues.
func (s *Server) GetIssueCounts(c echo.Context) error {
	resp, err := s.issues(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp.Counts)
}

func (s *Server) issues(c echo.Context) (queries.GetIssuesQueryResponse, error) {
	filter, err := issueFilter(c)
	if err != nil {
		return queries.GetIssuesQueryResponse{}, err
	}
	return s.handlers.GetIssues.Handle(queries.NewGetIssuesQuery(filter))
}

// RespondRequest is the body of POST /api/v1/issues/:id/respond.
type RespondRequest struct {
	Action  string `json:"action" validate:"required,oneof=redeliver return_to_shop"`
	Message string `json:"message" validate:"required"`
}

// RespondToIssue handles POST /api/v1/issues/:id/respond.
func (s *Server) RespondToIssue(c echo.Context) error {
	var req RespondRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cmd, err := commands.NewRespondToIssueCommand(
		kernel.ID(c.Param("id")),
		issue.ParseAction(req.Action),
		req.Message,
		s.now(),
	)
	if err != nil {
		return err
	}

	updated, err := s.handlers.RespondToIssue.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, queries.IssueResponseFrom(updated))
}

// GetNotifications handles GET /api/v1/notifications?after=&limit=.
func (s *Server) GetNotifications(c echo.Context) error {
	var after uint64
	if raw := c.QueryParam("after"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return invalidParam("after", err)
		}
		after = v
	}

	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}

	query, err := queries.NewGetNotificationsQuery(after, limit)
	if err != nil {
		return err
	}

	resp, err := s.handlers.GetNotifications.Handle(query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetViewHealth handles GET /api/v1/views/:domain.
func (s *Server) GetViewHealth(c echo.Context) error {
	h, err := s.views.Health(jobs.Domain(c.Param("domain")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h)
}

// OpenView handles POST /api/v1/views/:domain/open.
func (s *Server) OpenView(c echo.Context) error {
	return s.viewAction(c, s.views.Open)
}

// CloseView handles POST /api/v1/views/:domain/close.
func (s *Server) CloseView(c echo.Context) error {
	return s.viewAction(c, s.views.Close)
}

// ResumeView handles POST /api/v1/views/:domain/resume after re-authentication.
func (s *Server) ResumeView(c echo.Context) error {
	return s.viewAction(c, s.views.Resume)
}

func (s *Server) viewAction(c echo.Context, action func(jobs.Domain) error) error {
	domain := jobs.Domain(c.Param("domain"))
	if err := action(domain); err != nil {
		return err
	}
	return s.GetViewHealth(c)
}
