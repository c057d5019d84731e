package rest

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/downline"
	"github.com/totegamma/chitfund/internal/present/rest/presenter"
	"github.com/totegamma/chitfund/internal/usecase"
	"github.com/totegamma/chitfund/internal/utils"
	"github.com/totegamma/chitfund/payout"
)

type Handler struct {
	network *usecase.NetworkUsecase
	report  *usecase.ReportUsecase
}

func NewHandler(
	network *usecase.NetworkUsecase,
	report *usecase.ReportUsecase,
) *Handler {
	return &Handler{
		network: network,
		report:  report,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/members/:id/downline", h.handleDownline)
	e.GET("/members/:id/steps", h.handleSteps)
	e.GET("/members/:id/tree", h.handleTree)
	e.GET("/members/:id/tier", h.handleTier)
	e.GET("/members/:id/payout", h.handleMemberPayout)
	e.DELETE("/members/:id/cache", h.handleInvalidate)
	e.GET("/payout/ideal", h.handleIdealPayout)
	e.POST("/payout/actual", h.handleActualPayout)
	e.POST("/reports", h.handleReport)
	e.GET("/tiers", h.handleTiers)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

type downlineResponse struct {
	RootID  string                   `json:"rootId"`
	Size    int                      `json:"size"`
	Members []chitfund.DownlineEntry `json:"members"`
}

func (h *Handler) handleDownline(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	entries, err := h.network.ComputeDownline(ctx, id)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, downlineResponse{
		RootID:  id,
		Size:    len(entries),
		Members: downline.SortByJoin(entries),
	})
}

type stepsResponse struct {
	RootID string                  `json:"rootId"`
	Steps  utils.OrderedKVMap[int] `json:"steps"`
	Counts []int                   `json:"counts"`
}

func (h *Handler) handleSteps(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	assignments, err := h.network.AssignSteps(ctx, id)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, stepsResponse{
		RootID: id,
		Steps:  utils.StepMap(assignments),
		Counts: downline.StepCounts(assignments),
	})
}

func (h *Handler) handleTree(c echo.Context) error {
	ctx := c.Request().Context()

	tree, err := h.network.Tree(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, tree)
}

type tierResponse struct {
	MemberID string      `json:"memberId"`
	Amount   float64     `json:"subscriptionAmount"`
	Tier     payout.Tier `json:"tier"`
}

func (h *Handler) handleTier(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	tier, amount, err := h.network.ResolveTier(ctx, id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, tierResponse{MemberID: id, Amount: amount, Tier: tier})
}

func (h *Handler) handleMemberPayout(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.network.MemberPayout(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleInvalidate(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.network.Invalidate(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleIdealPayout(c echo.Context) error {
	baseRate, err := strconv.ParseFloat(c.QueryParam("baseRate"), 64)
	if err != nil {
		return presenter.Error(c, chitfund.NewInvalidInput("baseRate", "must be a number"))
	}

	maxSteps := chitfund.MaxStep
	if raw := c.QueryParam("maxSteps"); raw != "" {
		maxSteps, err = strconv.Atoi(raw)
		if err != nil {
			return presenter.Error(c, chitfund.NewInvalidInput("maxSteps", "must be an integer"))
		}
	}

	result, err := h.network.ComputePayout(baseRate, maxSteps)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

type actualPayoutRequest struct {
	BaseRate float64 `json:"baseRate"`
	Counts   []int   `json:"counts"`
}

func (h *Handler) handleActualPayout(c echo.Context) error {
	ctx := c.Request().Context()

	var req actualPayoutRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	result, err := h.network.ComputePayoutFromActualCounts(ctx, req.BaseRate, req.Counts)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

type reportRequest struct {
	Members []string `json:"members"`
}

func (h *Handler) handleReport(c echo.Context) error {
	ctx := c.Request().Context()

	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	// ?members=a,b is accepted for callers without a body
	ids := chitfund.ParseMemberIDs(strings.Join(req.Members, ","))
	if len(ids) == 0 {
		ids = chitfund.ParseMemberIDs(c.QueryParam("members"))
	}

	report, err := h.report.Build(ctx, ids)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, report)
}

func (h *Handler) handleTiers(c echo.Context) error {
	return presenter.OK(c, payout.Tiers())
}
