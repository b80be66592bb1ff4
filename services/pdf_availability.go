package services

import (
	"strings"

	"github.com/dosya-jo/dosya-api/model"
)

// pdfAvailability lists courses sold with a digital copy before uploads were
// tracked per course, keyed by university name then course name.
var pdfAvailability = map[string][]string{
	"جامعة جدارا":             {"برمجة 1", "برمجة 2"},
	"جامعة عجلون الوطنية":     {"C++"},
	"جامعة اربد الاهليه":      {"البرمجة بلغة مختاره", "C++"},
	"جامعة الزيتونة الأردنية": {"برمجة 1", "برمجة 2"},
}

// IsPDFAvailable reports whether a course has a digital copy, either uploaded
// or listed in the legacy availability table
func IsPDFAvailable(universityName string, course model.Course) bool {
	if course.PDFKey != "" {
		return true
	}
	for _, name := range pdfAvailability[strings.TrimSpace(universityName)] {
		if strings.EqualFold(name, strings.TrimSpace(course.Name)) {
			return true
		}
	}
	return false
}
