package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/username/weekcal/internal/calendar"
	"go.uber.org/zap"
)

const stateDateLayout = "2006-01-02"

// CursorState represents the persisted week cursor
type CursorState struct {
	Year      int    `json:"year"`
	Week      int    `json:"week"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	UpdatedAt string `json:"updated_at"`
}

// CursorStateManager keeps the displayed week between CLI invocations
type CursorStateManager struct {
	stateFile string
	state     *CursorState
	logger    *zap.Logger
}

// NewCursorStateManager creates a new cursor state manager
func NewCursorStateManager(stateFile string, logger *zap.Logger) *CursorStateManager {
	return &CursorStateManager{
		stateFile: stateFile,
		logger:    logger,
	}
}

// Load loads the cursor state from file
func (csm *CursorStateManager) Load() error {
	data, err := os.ReadFile(csm.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - will be created on first save
			csm.state = nil
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state CursorState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	csm.state = &state
	csm.logger.Debug("Week cursor loaded",
		zap.String("start_date", state.StartDate))

	return nil
}

// Restore positions nav on the persisted week. Without a saved state the
// navigator stays on the week containing today.
func (csm *CursorStateManager) Restore(nav *Navigator) (calendar.Week, error) {
	if csm.state == nil || csm.state.StartDate == "" {
		return nav.Week(), nil
	}

	start, err := time.ParseInLocation(stateDateLayout, csm.state.StartDate, nav.loc)
	if err != nil {
		return nav.Week(), fmt.Errorf("invalid start_date in state file: %w", err)
	}

	return nav.JumpTo(start), nil
}

// Save stores week as the current cursor
func (csm *CursorStateManager) Save(week calendar.Week) error {
	year, isoWeek := week.Start.AddDate(0, 0, 1).ISOWeek()

	csm.state = &CursorState{
		Year:      year,
		Week:      isoWeek,
		StartDate: week.Start.Format(stateDateLayout),
		EndDate:   week.End.Format(stateDateLayout),
		UpdatedAt: time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(csm.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(csm.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	csm.logger.Debug("Week cursor saved",
		zap.String("start_date", csm.state.StartDate),
		zap.String("end_date", csm.state.EndDate))

	return nil
}

// GetCurrentState returns current state, nil before the first save
func (csm *CursorStateManager) GetCurrentState() *CursorState {
	return csm.state
}
