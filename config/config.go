package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("SP_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("SP_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("SP_LISTEN")
	if listen == "" {
		listen = "0.0.0.0"
	}
	return listen
}

func GetPort() int {
	portStr := os.Getenv("SP_PORT")
	if portStr == "" {
		return 5001
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return 5001
	}
	return port
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("SP_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "data"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("SP_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "logs"
	}
	return logFolderPath
}

func GetUploadFolder() string {
	uploadFolder := os.Getenv("SP_UPLOAD_FOLDER")
	if uploadFolder == "" {
		uploadFolder = "uploads"
	}
	return uploadFolder
}

// GetTemplatePath returns the path of the macro-enabled export template.
func GetTemplatePath() string {
	templatePath := os.Getenv("SP_TEMPLATE_PATH")
	if templatePath == "" {
		templatePath = "templates/record_template.xlsm"
	}
	return templatePath
}

func GetSessionSecret() string {
	return os.Getenv("SP_SESSION_SECRET")
}

func GetWebDomain() string {
	return os.Getenv("SP_WEB_DOMAIN")
}

func GetBasePath() string {
	basePath := os.Getenv("SP_BASE_PATH")
	if basePath == "" {
		return "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath
}
