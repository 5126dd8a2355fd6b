package config

import "path/filepath"

type ReportConfig interface {
	GetReportPageSize() int
	GetExportFolder() string
}

type Reports struct{}

var _ ReportConfig = Reports{}

func (Reports) GetReportPageSize() int {
	return GetEnvInt("REPORT_PAGE_SIZE", 10)
}

func (Reports) GetExportFolder() string {
	return filepath.Join(EnvVars{}.GetDataFolder(), "exports")
}
