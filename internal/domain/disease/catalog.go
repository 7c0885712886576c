package disease

func num(name, label string) Field  { return Field{Name: name, Label: label, Kind: Number} }
func text(name, label string) Field { return Field{Name: name, Label: label, Kind: Text} }

var catalog = []Disease{
	{
		Key:       Diabetes,
		Title:     "Diabetes Prediction",
		Icon:      "activity",
		Prompt:    "Enter the following details to predict diabetes:",
		ModelFile: "diabetes_model.json",
		Fields: []Field{
			num("Pregnancies", "Number of Pregnancies"),
			num("Glucose", "Glucose Level"),
			num("BloodPressure", "Blood Pressure"),
			num("SkinThickness", "Skin Thickness"),
			num("Insulin", "Insulin Level"),
			num("BMI", "BMI"),
			num("DiabetesPedigreeFunction", "Diabetes Pedigree Function"),
			num("Age", "Age"),
		},
	},
	{
		Key:       HeartDisease,
		Title:     "Heart Disease Prediction",
		Icon:      "heart",
		Prompt:    "Enter the following details to predict heart disease:",
		ModelFile: "heart_disease_model.json",
		Fields: []Field{
			num("age", "Age"),
			text("sex", "Sex (1 = male, 0 = female)"),
			num("cp", "Chest Pain Type (0-3)"),
			num("trestbps", "Resting Blood Pressure"),
			num("chol", "Serum Cholesterol (mg/dl)"),
			num("fbs", "Fasting Blood Sugar > 120 mg/dl (1 = true, 0 = false)"),
			num("restecg", "Resting ECG Results (0-2)"),
			num("thalach", "Maximum Heart Rate Achieved"),
			num("exang", "Exercise Induced Angina (1 = yes, 0 = no)"),
			num("oldpeak", "ST Depression Induced by Exercise"),
			num("slope", "Slope of Peak Exercise ST Segment"),
			num("ca", "Major Vessels Colored by Fluoroscopy (0-3)"),
			num("thal", "Thal (0 = normal, 1 = fixed defect, 2 = reversible defect)"),
		},
	},
	{
		Key:       Parkinsons,
		Title:     "Parkinsons Prediction",
		Icon:      "person",
		Prompt:    "Enter the following voice measurements to predict Parkinson's disease:",
		ModelFile: "parkinsons_model.json",
		Fields: []Field{
			num("MDVP:Fo(Hz)", "MDVP Fo (Hz)"),
			num("MDVP:Fhi(Hz)", "MDVP Fhi (Hz)"),
			num("MDVP:Flo(Hz)", "MDVP Flo (Hz)"),
			num("MDVP:Jitter(%)", "MDVP Jitter (%)"),
			num("MDVP:Jitter(Abs)", "MDVP Jitter (Abs)"),
			num("MDVP:RAP", "MDVP RAP"),
			num("MDVP:PPQ", "MDVP PPQ"),
			num("Jitter:DDP", "Jitter DDP"),
			num("MDVP:Shimmer", "MDVP Shimmer"),
			num("MDVP:Shimmer(dB)", "MDVP Shimmer (dB)"),
			num("Shimmer:APQ3", "Shimmer APQ3"),
			num("Shimmer:APQ5", "Shimmer APQ5"),
			num("MDVP:APQ", "MDVP APQ"),
			num("Shimmer:DDA", "Shimmer DDA"),
			num("NHR", "NHR"),
			num("HNR", "HNR"),
			num("RPDE", "RPDE"),
			num("DFA", "DFA"),
			num("spread1", "Spread1"),
			num("spread2", "Spread2"),
			num("D2", "D2"),
			num("PPE", "PPE"),
		},
	},
	{
		Key:       LungCancer,
		Title:     "Lung Cancer Prediction",
		Icon:      "lungs",
		Prompt:    "Enter the following details to predict lung cancer (2 = yes, 1 = no):",
		ModelFile: "lungs_disease_model.json",
		Fields: []Field{
			text("GENDER", "Gender (1 = male, 0 = female)"),
			num("AGE", "Age"),
			num("SMOKING", "Smoking"),
			num("YELLOW_FINGERS", "Yellow Fingers"),
			num("ANXIETY", "Anxiety"),
			num("PEER_PRESSURE", "Peer Pressure"),
			num("CHRONIC_DISEASE", "Chronic Disease"),
			num("FATIGUE", "Fatigue"),
			num("ALLERGY", "Allergy"),
			num("WHEEZING", "Wheezing"),
			num("ALCOHOL_CONSUMING", "Alcohol Consuming"),
			num("COUGHING", "Coughing"),
			num("SHORTNESS_OF_BREATH", "Shortness of Breath"),
			num("SWALLOWING_DIFFICULTY", "Swallowing Difficulty"),
			num("CHEST_PAIN", "Chest Pain"),
		},
	},
	{
		Key:       Thyroid,
		Title:     "Hypo-Thyroid Prediction",
		Icon:      "clipboard2-pulse",
		Prompt:    "Enter the following details to predict hypothyroidism:",
		ModelFile: "thyroid_model.json",
		Fields: []Field{
			num("age", "Age"),
			text("sex", "Sex (1 = male, 0 = female)"),
			text("on_thyroxine", "On Thyroxine (1 = yes, 0 = no)"),
			num("tsh", "TSH Level"),
			text("t3_measured", "T3 Measured (1 = yes, 0 = no)"),
			num("t3", "T3 Level"),
			num("tt4", "TT4 Level"),
		},
	},
}
