package utils

import (
	"strings"

	"travelagency/internal/logger"

	"github.com/sirupsen/logrus"
)

// LogEvent writes a standardized entry with module/action/request_id fields.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	eventEntry(requestID, module, action).Info(message)
}

// LogWarn is LogEvent at warning level, for degraded but non-fatal paths.
func LogWarn(requestID, module, action, message string) {
	logger.WarnLogger.WithFields(eventFields(requestID, module, action)).Warn(message)
}

// LogError records a failure together with its cause.
func LogError(requestID, module, action string, err error) {
	logger.ErrorLogger.WithFields(eventFields(requestID, module, action)).WithError(err).Error(action + " failed")
}

func eventEntry(requestID, module, action string) *logrus.Entry {
	return logger.InfoLogger.WithFields(eventFields(requestID, module, action))
}

func eventFields(requestID, module, action string) logrus.Fields {
	return logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}
}
