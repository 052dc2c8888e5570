package handlers

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs custom binding validations on gin's validator
// engine. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("timeofday", validTimeOfDay)
		}
	})
}

// validTimeOfDay accepts "15:04" clock strings, with "24:00" allowed as
// end-of-day.
func validTimeOfDay(fl validator.FieldLevel) bool {
	parts := strings.SplitN(fl.Field().String(), ":", 2)
	if len(parts) != 2 || len(parts[1]) != 2 {
		return false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	if h == 24 {
		return m == 0
	}
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}
