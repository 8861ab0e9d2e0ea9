package control

import (
	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"
)

// RobotgoActuator drives the real pointer and keyboard through robotgo.
type RobotgoActuator struct {
	logger *zap.Logger
}

// NewRobotgoActuator creates an actuator backed by robotgo.
func NewRobotgoActuator(logger *zap.Logger) *RobotgoActuator {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Input is injected once per frame; robotgo's default inter-event sleep
	// would throttle the loop.
	robotgo.MouseSleep = 0
	robotgo.KeySleep = 0
	return &RobotgoActuator{logger: logger}
}

func (a *RobotgoActuator) MoveTo(x, y int) {
	robotgo.Move(x, y)
}

func (a *RobotgoActuator) Click() {
	robotgo.Click("left")
}

func (a *RobotgoActuator) MouseDown() {
	if err := robotgo.Toggle("left"); err != nil {
		a.logger.Warn("mouse down failed", zap.Error(err))
	}
}

func (a *RobotgoActuator) MouseUp() {
	if err := robotgo.Toggle("left", "up"); err != nil {
		a.logger.Warn("mouse up failed", zap.Error(err))
	}
}

func (a *RobotgoActuator) Scroll(amount int) {
	robotgo.Scroll(0, amount)
}

func (a *RobotgoActuator) Hotkey(keys ...string) {
	if len(keys) == 0 {
		return
	}
	key := keys[len(keys)-1]
	mods := make([]interface{}, 0, len(keys)-1)
	for _, m := range keys[:len(keys)-1] {
		mods = append(mods, m)
	}
	if err := robotgo.KeyTap(key, mods...); err != nil {
		a.logger.Warn("hotkey failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (a *RobotgoActuator) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
