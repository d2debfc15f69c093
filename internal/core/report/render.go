package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"maitri-diet/internal/core/diet"
	"maitri-diet/internal/pkg/common"
)

// 版面尺寸（mm）
const (
	marginLeft   = 20.0
	marginRight  = 20.0
	marginTop    = 20.0
	lineHeight   = 6.0
	pageBottom   = 280.0
	headerBottom = 270.0
	footerBottom = 250.0
	footerTimeW  = 30.0
)

const fileNameLayout = "2006-01-02_15-04-05"

type rgb struct{ r, g, b int }

var (
	primaryColor = rgb{233, 30, 99}
	textColor    = rgb{44, 62, 80}
	footerColor  = rgb{100, 100, 100}
)

var importantNotes = []string{
	"This diet plan is generated based on the information you provided",
	"Please consult with a healthcare professional before making significant dietary changes",
	"Individual nutritional needs may vary",
	"Monitor your body's response and adjust as needed",
}

var slotLabels = map[diet.MealSlot]string{
	diet.SlotBreakfast: "BREAKFAST",
	diet.SlotLunch:     "LUNCH",
	diet.SlotDinner:    "DINNER",
	diet.SlotSnacks:    "SNACKS",
}

// FileName 產生下載檔名
func FileName(t time.Time) string {
	return "Maitri_Diet_Plan_" + t.UTC().Format(fileNameLayout) + ".pdf"
}

// GeneratedAt 計畫產生時間，未提供時使用目前時間
func GeneratedAt(plan *diet.DietPlan) time.Time {
	if plan == nil || plan.GeneratedAt.IsZero() {
		return time.Now().UTC()
	}
	return plan.GeneratedAt
}

// Render 將飲食計畫輸出為 PDF
func Render(p diet.Profile, plan *diet.DietPlan) ([]byte, error) {
	w, err := layout(p, plan)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, common.ErrPDFRender.Wrap(err)
	}
	return buf.Bytes(), nil
}

// drawnLine 已輸出的文字行，測試用來檢查分頁
type drawnLine struct {
	page int
	y    float64
	text string
}

// pageWriter 追蹤游標的 PDF 輸出器，每一行換行後的文字都檢查是否需要換頁
type pageWriter struct {
	pdf          *gofpdf.Fpdf
	tr           func(string) string
	y            float64
	contentWidth float64
	lines        []drawnLine
}

func newPageWriter(createdAt time.Time) *pageWriter {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("Maitri Health Platform", true)
	pdf.SetTitle("Maitri Personalized Diet Plan", true)
	pdf.SetCreationDate(createdAt)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	return &pageWriter{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		y:            marginTop,
		contentWidth: pageW - marginLeft - marginRight,
	}
}

func (w *pageWriter) newPage() {
	w.pdf.AddPage()
	w.y = marginTop
}

func (w *pageWriter) setStyle(style string, size float64, c rgb) {
	w.pdf.SetFont("Helvetica", style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pageWriter) drawAt(x float64, text string) {
	w.pdf.Text(x, w.y, w.tr(text))
	w.lines = append(w.lines, drawnLine{page: w.pdf.PageNo(), y: w.y, text: text})
}

// wrapped 換行後逐行輸出
func (w *pageWriter) wrapped(text string, size float64, c rgb) {
	w.setStyle("", size, c)
	for _, line := range w.pdf.SplitLines([]byte(w.tr(text)), w.contentWidth) {
		if w.y > pageBottom {
			w.newPage()
		}
		w.pdf.Text(marginLeft, w.y, string(line))
		w.lines = append(w.lines, drawnLine{page: w.pdf.PageNo(), y: w.y, text: string(line)})
		w.y += lineHeight
	}
}

func (w *pageWriter) header(title string) {
	if w.y > headerBottom {
		w.newPage()
	}
	w.setStyle("B", 14, primaryColor)
	w.drawAt(marginLeft, title)
	w.y += 10
}

func (w *pageWriter) bullet(text string) {
	w.wrapped("• "+text, 10, textColor)
}

func (w *pageWriter) gap(h float64) {
	w.y += h
}

func layout(p diet.Profile, plan *diet.DietPlan) (*pageWriter, error) {
	if plan == nil {
		return nil, common.ErrPDFRender.Wrap(fmt.Errorf("plan is required"))
	}

	generated := GeneratedAt(plan)

	w := newPageWriter(generated)

	w.setStyle("B", 20, primaryColor)
	w.drawAt(marginLeft, "MAITRI PERSONALIZED DIET PLAN")
	w.gap(15)

	w.wrapped("Generated on "+generated.Format("Monday, January 2, 2006"), 12, textColor)
	w.gap(10)

	w.header("DAILY CALORIE TARGET")
	w.wrapped(fmt.Sprintf("%d calories per day", plan.DailyCalories), 12, primaryColor)
	w.gap(10)

	w.header("PERSONAL INFORMATION")
	for _, info := range []string{
		fmt.Sprintf("Age: %d years", p.Age),
		fmt.Sprintf("Weight: %s kg", formatNumber(p.WeightKg)),
		fmt.Sprintf("Height: %s cm", formatNumber(p.HeightCm)),
		"Activity Level: " + diet.Label(diet.ActivityLevels, string(p.ActivityLevel)),
	} {
		w.bullet(info)
		w.gap(2)
	}
	w.gap(5)

	w.header("SELECTED SYMPTOMS")
	symptoms := make([]string, 0, len(p.Symptoms))
	for _, s := range p.Symptoms {
		symptoms = append(symptoms, diet.Label(diet.Symptoms, string(s)))
	}
	w.tagList(symptoms)

	w.header("HEALTH GOALS")
	goals := make([]string, 0, len(p.HealthGoals))
	for _, g := range p.HealthGoals {
		goals = append(goals, diet.Label(diet.Goals, string(g)))
	}
	w.tagList(goals)

	w.header("DIETARY PREFERENCES")
	dietType := "Not specified"
	if p.DietaryPreference != "" {
		dietType = diet.Label(diet.DietaryPreferences, string(p.DietaryPreference))
	}
	w.wrapped("Diet Type: "+dietType, 10, textColor)
	w.gap(2)
	allergies := p.Allergies
	if allergies == "" {
		allergies = "None specified"
	}
	w.wrapped("Allergies/Intolerances: "+allergies, 10, textColor)
	w.gap(10)

	if len(plan.Recommendations) > 0 {
		w.header("PERSONALIZED RECOMMENDATIONS")
		for i, rec := range plan.Recommendations {
			w.wrapped(fmt.Sprintf("%d. %s", i+1, rec.Title), 11, primaryColor)
			w.gap(2)
			w.wrapped("   "+rec.Description, 10, textColor)
			w.gap(5)
		}
	}

	w.header("SAMPLE MEAL PLAN")
	for _, slot := range diet.MealSlots {
		meals := plan.MealPlan[slot]
		if len(meals) == 0 {
			continue
		}
		w.wrapped(slotLabels[slot]+":", 11, primaryColor)
		w.gap(2)
		for _, meal := range meals {
			w.bullet(meal)
			w.gap(2)
		}
		w.gap(3)
	}

	if len(plan.Supplements) > 0 {
		w.header("RECOMMENDED SUPPLEMENTS")
		for i, s := range plan.Supplements {
			w.wrapped(fmt.Sprintf("%d. %s", i+1, s.Name), 11, primaryColor)
			w.gap(2)
			if s.Dosage != "" {
				w.wrapped("   Dosage: "+s.Dosage, 10, textColor)
				w.gap(2)
			}
			if s.Reason != "" {
				w.wrapped("   Reason: "+s.Reason, 10, textColor)
				w.gap(5)
			}
		}
	}

	w.header("IMPORTANT NOTES")
	for _, note := range importantNotes {
		w.bullet(note)
		w.gap(3)
	}

	if w.y > footerBottom {
		w.newPage()
	}
	w.gap(10)
	pageW, _ := w.pdf.GetPageSize()
	w.setStyle("", 10, footerColor)
	w.drawAt(marginLeft, "Generated by Maitri Health Platform")
	w.drawAt(pageW-marginRight-footerTimeW, generated.Format("03:04 PM"))

	if err := w.pdf.Error(); err != nil {
		return nil, common.ErrPDFRender.Wrap(err)
	}
	return w, nil
}

func (w *pageWriter) tagList(labels []string) {
	if len(labels) == 0 {
		w.bullet("None selected")
	}
	for _, l := range labels {
		w.bullet(l)
		w.gap(2)
	}
	w.gap(5)
}

func formatNumber(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	return strings.TrimSuffix(s, ".0")
}
