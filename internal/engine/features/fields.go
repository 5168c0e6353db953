package features

// Field describes one form input for the presentation layer.
type Field struct {
	Name  string
	Label string
	Hint  string
	Step  string
}

// Fields returns form metadata for every feature, in canonical order.
func Fields() []Field {
	fields := make([]Field, 0, Count)
	for _, name := range Order {
		fields = append(fields, fieldInfo[name])
	}
	return fields
}

var fieldInfo = map[string]Field{
	"age":      {Name: "age", Label: "Age", Hint: "years (1-120)", Step: "1"},
	"sex":      {Name: "sex", Label: "Sex", Hint: "1 = male, 0 = female", Step: "1"},
	"cp":       {Name: "cp", Label: "Chest Pain Type", Hint: "0-3", Step: "1"},
	"trestbps": {Name: "trestbps", Label: "Resting Blood Pressure", Hint: "mm Hg (50-250)", Step: "1"},
	"chol":     {Name: "chol", Label: "Cholesterol", Hint: "mg/dl (50-600)", Step: "1"},
	"fbs":      {Name: "fbs", Label: "Fasting Blood Sugar > 120 mg/dl", Hint: "1 = true, 0 = false", Step: "1"},
	"restecg":  {Name: "restecg", Label: "Resting ECG", Hint: "0-2", Step: "1"},
	"thalach":  {Name: "thalach", Label: "Maximum Heart Rate", Hint: "bpm (60-220)", Step: "1"},
	"exang":    {Name: "exang", Label: "Exercise Induced Angina", Hint: "1 = yes, 0 = no", Step: "1"},
	"oldpeak":  {Name: "oldpeak", Label: "ST Depression", Hint: "relative to rest", Step: "0.1"},
	"slope":    {Name: "slope", Label: "ST Slope", Hint: "0-2", Step: "1"},
	"ca":       {Name: "ca", Label: "Major Vessels", Hint: "0-4", Step: "1"},
	"thal":     {Name: "thal", Label: "Thalassemia", Hint: "0-3", Step: "1"},
}
