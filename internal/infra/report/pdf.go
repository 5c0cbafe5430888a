package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"intake-connector/internal/domain/dto"
	"intake-connector/internal/domain/entities"
	"intake-connector/internal/infra/logger"

	"github.com/jung-kurt/gofpdf"
)

const disclaimerText = "This report was generated with AI assistance from an automated intake conversation. " +
	"All content requires verification by a licensed clinician before any medical decision is made. " +
	"The AI assessment is not a diagnosis and must not be treated as one."

// PDFRenderer produces the paginated clinical intake report: a summary page,
// an observations page, and a verbatim transcript section. Rendering is
// deterministic for the same inputs apart from the generated-at footer stamp.
type PDFRenderer struct {
	Logger *logger.Logger
}

func NewPDFRenderer(logger *logger.Logger) *PDFRenderer {
	return &PDFRenderer{Logger: logger}
}

// RenderableTranscript returns the non-system messages with non-empty
// content, in their original conversation order.
func RenderableTranscript(transcript []entities.TranscriptMessage) []entities.TranscriptMessage {
	filtered := make([]entities.TranscriptMessage, 0, len(transcript))
	for _, msg := range transcript {
		if msg.Role == entities.RoleSystem || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}

func (r *PDFRenderer) RenderIntakeReport(doc dto.IntakeReportDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 22)
	pdf.AliasNbPages("")

	generatedAt := time.Now().UTC().Format("2006-01-02 15:04 MST")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-16)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(90, 8, fmt.Sprintf("Encounter %s - generated %s", doc.SessionID, generatedAt), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	r.summaryPage(pdf, doc)
	r.observationsPage(pdf, doc)
	r.transcriptPages(pdf, doc)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render intake report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) summaryPage(pdf *gofpdf.Fpdf, doc dto.IntakeReportDocument) {
	pdf.AddPage()

	title := "AI-ASSISTED PATIENT INTAKE"
	if doc.ProjectName != "" {
		title = strings.ToUpper(doc.ProjectName)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 7, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "PRE-VISIT ASSESSMENT REPORT", "", 1, "C", false, 0, "")
	pdf.SetFillColor(0, 0, 0)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(0, 5, "CONFIDENTIAL MEDICAL RECORD - PROTECTED HEALTH INFORMATION", "", 1, "C", true, 0, "")
	pdf.Ln(4)

	r.priorityBanner(pdf, doc.Analysis.UrgencyLevel)

	r.sectionHeader(pdf, "PATIENT DEMOGRAPHICS")
	r.fieldRow(pdf, "Patient Name:", doc.PatientName)
	r.fieldRow(pdf, "Encounter ID:", doc.SessionID)
	r.fieldRow(pdf, "Date:", doc.ReportDate)
	r.fieldRow(pdf, "Duration:", formatDuration(doc.DurationSeconds))
	pdf.Ln(2)

	r.sectionHeader(pdf, "CHIEF COMPLAINT (CC)")
	r.paragraph(pdf, doc.Analysis.ChiefComplaint)

	r.sectionHeader(pdf, "HISTORY OF PRESENT ILLNESS (HPI)")
	r.bulletList(pdf, doc.Analysis.Symptoms, "No specific symptoms documented")

	r.sectionHeader(pdf, "ALLERGIES")
	if len(doc.Analysis.Allergies) > 0 {
		r.alertBox(pdf, "KNOWN ALLERGIES", doc.Analysis.Allergies)
	} else {
		r.emptyLine(pdf, "No known allergies reported (NKA)")
	}

	r.sectionHeader(pdf, "CURRENT MEDICATIONS")
	r.bulletList(pdf, doc.Analysis.Medications, "None reported")

	r.sectionHeader(pdf, "PAST MEDICAL HISTORY (PMH)")
	r.bulletList(pdf, doc.Analysis.MedicalHistory, "None reported")
}

func (r *PDFRenderer) observationsPage(pdf *gofpdf.Fpdf, doc dto.IntakeReportDocument) {
	pdf.AddPage()

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "CLINICAL OBSERVATIONS & AI ASSESSMENT", "B", 1, "L", false, 0, "")
	pdf.Ln(3)

	r.sectionHeader(pdf, "VISUAL / PERCEPTION OBSERVATIONS")
	if doc.PerceptionAnalysis != "" {
		r.paragraph(pdf, doc.PerceptionAnalysis)
	} else {
		r.emptyLine(pdf, "Not available")
	}

	r.sectionHeader(pdf, "KEY PATIENT STATEMENTS")
	if len(doc.Analysis.KeyQuotes) > 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(60, 60, 60)
		for _, quote := range doc.Analysis.KeyQuotes {
			pdf.SetX(20)
			pdf.MultiCell(170, 5, fmt.Sprintf("\"%s\"", quote), "L", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(1)
	} else {
		r.emptyLine(pdf, "Not available")
	}

	r.sectionHeader(pdf, "AI SUMMARY")
	r.paragraph(pdf, doc.Analysis.Summary)

	r.sectionHeader(pdf, "RECOMMENDED FOLLOW-UP")
	if len(doc.Analysis.RecommendedActions) > 0 {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for i, action := range doc.Analysis.RecommendedActions {
			pdf.SetX(18)
			pdf.MultiCell(174, 5, fmt.Sprintf("%d. %s", i+1, action), "", "L", false)
		}
		pdf.Ln(2)
	} else {
		r.emptyLine(pdf, "Not available")
	}

	pdf.Ln(4)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetFillColor(249, 249, 249)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, "DISCLAIMER", "LTR", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(70, 70, 70)
	pdf.MultiCell(0, 4, disclaimerText, "LBR", "L", true)
}

func (r *PDFRenderer) transcriptPages(pdf *gofpdf.Fpdf, doc dto.IntakeReportDocument) {
	pdf.AddPage()

	messages := RenderableTranscript(doc.Transcript)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, "VERBATIM TRANSCRIPT", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d messages - system messages excluded", len(messages)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(messages) == 0 {
		r.emptyLine(pdf, "Not available")
		return
	}

	for _, msg := range messages {
		role := "AI NURSE"
		if msg.Role == entities.RoleUser {
			role = "PATIENT"
			pdf.SetTextColor(0, 0, 0)
		} else {
			pdf.SetTextColor(80, 80, 80)
		}
		pdf.SetFont("Helvetica", "B", 8)
		label := role
		if msg.Timestamp != "" {
			label = fmt.Sprintf("%s [%s]", role, msg.Timestamp)
		}
		pdf.CellFormat(0, 4, label, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, msg.Content, "", "L", false)
		pdf.Ln(2)
	}
}

func (r *PDFRenderer) sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFillColor(229, 229, 229)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, "  "+title, "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func (r *PDFRenderer) priorityBanner(pdf *gofpdf.Fpdf, urgency string) {
	switch strings.ToLower(urgency) {
	case "high":
		pdf.SetFillColor(245, 245, 245)
	case "medium":
		pdf.SetFillColor(250, 250, 250)
	default:
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("  TRIAGE PRIORITY: %s", strings.ToUpper(urgency)), "LTR", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "  "+priorityDescription(urgency), "LBR", 1, "L", true, 0, "")
	pdf.Ln(3)
}

func priorityDescription(urgency string) string {
	switch strings.ToLower(urgency) {
	case "high":
		return "STAT - Immediate physician evaluation required"
	case "medium":
		return "URGENT - Prompt evaluation recommended"
	default:
		return "ROUTINE - Standard evaluation"
	}
}

func (r *PDFRenderer) fieldRow(pdf *gofpdf.Fpdf, label string, value string) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(35, 5, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) paragraph(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(2)
}

func (r *PDFRenderer) bulletList(pdf *gofpdf.Fpdf, items []string, emptyText string) {
	if len(items) == 0 {
		r.emptyLine(pdf, emptyText)
		return
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range items {
		pdf.SetX(18)
		pdf.MultiCell(174, 5, "- "+item, "", "L", false)
	}
	pdf.Ln(2)
}

func (r *PDFRenderer) alertBox(pdf *gofpdf.Fpdf, title string, items []string) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(249, 249, 249)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, "  ! "+title, "LTR", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for i, item := range items {
		border := "LR"
		if i == len(items)-1 {
			border = "LBR"
		}
		pdf.CellFormat(0, 5, "     - "+item, border, 1, "L", true, 0, "")
	}
	pdf.Ln(2)
}

func (r *PDFRenderer) emptyLine(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, "  "+text, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
