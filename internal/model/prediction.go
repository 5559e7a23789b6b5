package model

type Algorithm string

const (
	LinearRegression Algorithm = "linear"
	SVM              Algorithm = "svm"
	RandomForest     Algorithm = "random"
)

var Algorithms = []Algorithm{LinearRegression, SVM, RandomForest}

func (a Algorithm) Valid() bool {
	switch a {
	case LinearRegression, SVM, RandomForest:
		return true
	}
	return false
}

func (a Algorithm) Title() string {
	switch a {
	case LinearRegression:
		return "Linear Regression"
	case SVM:
		return "Support Vector Machines"
	case RandomForest:
		return "Random Forests"
	}
	return "Algorithm"
}

// Prediction holds the chart images rendered by the prediction backend.
// Error metrics are optional: the backend draws them into PlotUrl2.
type Prediction struct {
	Algorithm Algorithm `json:"algorithm"`
	Symbol    string    `json:"symbol"`
	PlotUrl1  string    `json:"plot_url1"`
	PlotUrl2  string    `json:"plot_url2"`
	MAE       Number    `json:"mae"`
	MSE       Number    `json:"mse"`
	RMSE      Number    `json:"rmse"`
	R2        Number    `json:"r2"`
}
