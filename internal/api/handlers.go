package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"renogyfleet/internal/collector"
	"renogyfleet/internal/devicecontrol"
	"renogyfleet/internal/health"
	"renogyfleet/internal/rollup"
)

const controlTimeout = 5 * time.Second

// Handlers holds everything the HTTP control surface needs to answer a
// request: the fleet poller (for live snapshots and control targets) and
// the health service.
type Handlers struct {
	fleet  *collector.Fleet
	health *health.HealthService
}

func NewHandlers(fleet *collector.Fleet, healthService *health.HealthService) *Handlers {
	return &Handlers{fleet: fleet, health: healthService}
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	results := h.health.CheckAll(c.Request.Context())
	status := h.health.GetOverallStatus(results)

	code := http.StatusOK
	if status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": results})
}

func (h *Handlers) GetFleetSummary(c *gin.Context) {
	summary := rollup.New(h.fleet.AllLatest())
	c.JSON(http.StatusOK, summary)
}

func (h *Handlers) GetBatterySnapshot(c *gin.Context) {
	id := c.Param("id")
	snap := h.fleet.Latest(id)
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot available for battery " + id})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// controlRequest is the body for POST /api/v1/batteries/:id/control.
type controlRequest struct {
	Command          string  `json:"command" binding:"required"`
	ChargePercent    *int    `json:"charge_percent"`
	DischargePercent *int    `json:"discharge_percent"`
	ACPValues        *[3]int `json:"acp_values"`
}

var commandsByName = map[string]devicecontrol.Command{
	"shutdown":                devicecontrol.CommandShutdown,
	"lock":                    devicecontrol.CommandLock,
	"unlock":                  devicecontrol.CommandUnlock,
	"test_begin":              devicecontrol.CommandTestBegin,
	"test_end":                devicecontrol.CommandTestEnd,
	"restore_factory_default": devicecontrol.CommandRestoreFactoryDefault,
	"clear_history":           devicecontrol.CommandClearHistory,
	"set_power_settings":      devicecontrol.CommandSetPowerSettings,
	"set_acp_config":          devicecontrol.CommandSetACPConfig,
}

func (h *Handlers) findPoller(id string) *collector.Poller {
	for _, p := range h.fleet.Pollers() {
		if p.BatteryID() == id {
			return p
		}
	}
	return nil
}

func (h *Handlers) ControlBattery(c *gin.Context) {
	id := c.Param("id")

	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd, ok := commandsByName[req.Command]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown command: " + req.Command})
		return
	}

	poller := h.findPoller(id)
	if poller == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown battery " + id})
		return
	}

	var power *devicecontrol.PowerSettings
	if req.ChargePercent != nil && req.DischargePercent != nil {
		ps, err := devicecontrol.NewPowerSettings(*req.ChargePercent, *req.DischargePercent)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		power = &ps
	}

	var acp *devicecontrol.ACPConfig
	if req.ACPValues != nil {
		cfg, err := devicecontrol.NewACPConfig(req.ACPValues[0], req.ACPValues[1], req.ACPValues[2])
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		acp = &cfg
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), controlTimeout)
	defer cancel()

	if err := devicecontrol.Execute(ctx, poller.Transport(), poller.Slave(), cmd, power, acp); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
