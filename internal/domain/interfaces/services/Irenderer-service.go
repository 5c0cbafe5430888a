package Iservices

import "intake-connector/internal/domain/dto"

// IReportRenderer produces the paginated intake report document.
type IReportRenderer interface {
	RenderIntakeReport(doc dto.IntakeReportDocument) ([]byte, error)
}
