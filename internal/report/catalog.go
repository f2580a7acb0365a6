package report

import (
	"fmt"
	"regexp"
	"strings"
)

// catalogEntry describes one known lab test: the synonym forms it appears
// under in printed reports, its reporting unit, and its reference range as an
// inclusive "min-max" band.
type catalogEntry struct {
	synonyms    string // pipe-separated, most canonical form first
	unit        string
	normalRange string
}

// testCatalog is the ordered master list of recognized tests. Order matters:
// extraction walks entries front to back and duplicate suppression keeps the
// first name found, so canonical panels come before overlapping abbreviations.
var testCatalog = []catalogEntry{
	// Complete blood count
	{"Hemoglobin|HB|Hb|HAEMOGLOBIN|HEMOGLOBIN|HGB", "g/dL", "13.0-17.0"},
	{"Red Blood Cell|RBC|Red Blood Cells|RBC COUNT", "million/mcL", "4.5-5.5"},
	{"White Blood Cell|WBC|White Blood Cells|WBC COUNT|TOTAL WBC", "/mcL", "4000-11000"},
	{"Platelet|PLT|Platelets|PLATELET COUNT", "thousand/mcL", "150-450"},
	{"Hematocrit|HCT|PCV|PACKED CELL VOLUME", "%", "38.3-48.6"},
	{"MCV|Mean Corpuscular Volume", "fL", "80-100"},
	{"MCH|Mean Corpuscular Hemoglobin", "pg", "27-33"},
	{"MCHC", "g/dL", "32-36"},
	{"RDW|Red Cell Distribution Width", "%", "11.5-14.5"},
	{"Lymphocyte|Lymphocytes|LYMPH", "%", "20-40"},
	{"Neutrophil|Neutrophils|NEUT", "%", "50-70"},
	{"Monocyte|Monocytes|MONO", "%", "2-10"},
	{"Eosinophil|Eosinophils|EOS", "%", "1-4"},
	{"Basophil|Basophils|BASO", "%", "0.5-1"},
	{"ESR|Erythrocyte Sedimentation Rate|SED RATE", "mm/hr", "0-22"},
	{"Reticulocyte|Reticulocytes|RETIC", "%", "0.5-2.5"},

	// Glucose metabolism
	{"Glucose|Sugar|Blood Sugar|GLUCOSE|RANDOM GLUCOSE|FASTING GLUCOSE", "mg/dL", "70-100"},
	{"HbA1c|HBA1C|Glycated Hemoglobin|A1C", "%", "4.0-5.6"},
	{"Insulin|FASTING INSULIN", "mcIU/mL", "2.6-24.9"},

	// Kidney function
	{"Creatinine|CREATININE|SERUM CREATININE", "mg/dL", "0.6-1.3"},
	{"Urea|BUN|Blood Urea Nitrogen|UREA NITROGEN", "mg/dL", "7-20"},
	{"Uric Acid|URIC ACID", "mg/dL", "3.5-7.2"},
	{"eGFR|GFR|Glomerular Filtration Rate", "mL/min", "90-120"},

	// Electrolytes
	{"Sodium|Na+|SERUM SODIUM", "mEq/L", "135-145"},
	{"Potassium|K+|SERUM POTASSIUM", "mEq/L", "3.5-5.0"},
	{"Chloride|Cl-|SERUM CHLORIDE", "mEq/L", "98-107"},
	{"Bicarbonate|HCO3|CO2", "mEq/L", "22-29"},
	{"Calcium|CALCIUM|SERUM CALCIUM", "mg/dL", "8.5-10.5"},
	{"Phosphorus|Phosphate|PHOSPHORUS", "mg/dL", "2.5-4.5"},
	{"Magnesium|MAGNESIUM|SERUM MAGNESIUM", "mg/dL", "1.7-2.2"},

	// Liver and pancreas
	{"Total Protein|Protein|TOTAL PROTEIN", "g/dL", "6.0-8.3"},
	{"Albumin|ALBUMIN|SERUM ALBUMIN", "g/dL", "3.5-5.0"},
	{"Globulin", "g/dL", "2.0-3.5"},
	{"Bilirubin|Total Bilirubin|TOTAL BILIRUBIN", "mg/dL", "0.3-1.2"},
	{"Direct Bilirubin|CONJUGATED BILIRUBIN", "mg/dL", "0.1-0.3"},
	{"ALT|SGPT|Alanine Transaminase|ALANINE AMINOTRANSFERASE", "U/L", "7-56"},
	{"AST|SGOT|Aspartate Transaminase|ASPARTATE AMINOTRANSFERASE", "U/L", "10-40"},
	{"ALP|Alkaline Phosphatase|ALK PHOS", "U/L", "44-147"},
	{"GGT|Gamma GT|GAMMA GLUTAMYL TRANSFERASE", "U/L", "9-48"},
	{"LDH|Lactate Dehydrogenase", "U/L", "140-280"},
	{"Amylase|SERUM AMYLASE", "U/L", "30-110"},
	{"Lipase|SERUM LIPASE", "U/L", "13-60"},

	// Lipid panel
	{"Cholesterol|Total Cholesterol|CHOLESTEROL|TOTAL CHOLESTEROL", "mg/dL", "150-200"},
	{"HDL|HDL Cholesterol|HIGH DENSITY LIPOPROTEIN", "mg/dL", "40-60"},
	{"LDL|LDL Cholesterol|LOW DENSITY LIPOPROTEIN", "mg/dL", "100-130"},
	{"VLDL", "mg/dL", "2-30"},
	{"Triglycerides|TRIGLYCERIDES|TG", "mg/dL", "150-200"},

	// Thyroid panel
	{"TSH|Thyroid Stimulating Hormone|THYROID STIMULATING HORMONE", "mIU/L", "0.4-4.0"},
	{"T3|Total T3|TRIIODOTHYRONINE", "ng/dL", "80-200"},
	{"T4|Total T4|THYROXINE", "mcg/dL", "5.0-12.0"},
	{"Free T3|FT3", "pg/mL", "2.3-4.2"},
	{"Free T4|FT4", "ng/dL", "0.8-1.8"},

	// Vitamins and iron studies
	{"Vitamin B12|B12|COBALAMIN", "pg/mL", "200-900"},
	{"Vitamin D|25-OH Vitamin D|VITAMIN D3", "ng/mL", "30-100"},
	{"Folate|Folic Acid|FOLATE", "ng/mL", "2.7-17.0"},
	{"Ferritin|SERUM FERRITIN", "ng/mL", "12-300"},
	{"Iron|SERUM IRON", "mcg/dL", "60-170"},
	{"TIBC|Total Iron Binding Capacity", "mcg/dL", "240-450"},
	{"Transferrin Saturation|TSAT", "%", "20-50"},

	// Inflammation and cardiac markers
	{"CRP|C-Reactive Protein|C REACTIVE PROTEIN", "mg/dL", "0.1-1.0"},
	{"Troponin|TROPONIN I|TROPONIN T", "ng/mL", "0.01-0.04"},
	{"CK|CPK|Creatine Kinase", "U/L", "22-198"},

	// Hormones
	{"Cortisol|MORNING CORTISOL", "mcg/dL", "6.2-19.4"},
	{"Testosterone|TOTAL TESTOSTERONE", "ng/dL", "300-1000"},
	{"Prolactin|SERUM PROLACTIN", "ng/mL", "4.0-15.2"},
	{"PSA|Prostate Specific Antigen", "ng/mL", "0.1-4.0"},

	// Coagulation
	{"Prothrombin Time|PT", "seconds", "11-13.5"},
	{"INR", "", "0.8-1.1"},
	{"APTT|PTT|Activated Partial Thromboplastin Time", "seconds", "25-35"},
	{"Fibrinogen", "mg/dL", "200-400"},
	{"D-Dimer|D DIMER", "mcg/mL", "0.1-0.5"},
}

// compiledEntry carries the three extraction patterns for one catalog entry,
// tried in order: tight name-value, loose name-value, value-before-name.
type compiledEntry struct {
	entry       catalogEntry
	primaryName string
	patterns    []*regexp.Regexp
}

var compiledCatalog = compileCatalog(testCatalog)

func compileCatalog(entries []catalogEntry) []compiledEntry {
	compiled := make([]compiledEntry, 0, len(entries))
	for _, e := range entries {
		names := strings.Split(e.synonyms, "|")
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = regexp.QuoteMeta(n)
		}
		nameAlt := strings.Join(quoted, "|")
		unit := regexp.QuoteMeta(e.unit)

		unitOpt := ""
		if unit != "" {
			unitOpt = fmt.Sprintf(`\s*(?:%s)?`, unit)
		}

		patterns := []*regexp.Regexp{
			regexp.MustCompile(fmt.Sprintf(`(?i)(%s)\s*[:\-]?\s*([0-9]+\.?[0-9]*)%s`, nameAlt, unitOpt)),
			regexp.MustCompile(fmt.Sprintf(`(?i)(%s).*?([0-9]+\.?[0-9]*)`, nameAlt)),
			regexp.MustCompile(fmt.Sprintf(`(?i)([0-9]+\.?[0-9]*)%s\s*.*?(%s)`, unitOpt, nameAlt)),
		}

		compiled = append(compiled, compiledEntry{
			entry:       e,
			primaryName: names[0],
			patterns:    patterns,
		})
	}
	return compiled
}
