package models

// ReviewUser is the reduced author record embedded in a review
type ReviewUser struct {
	Username string `json:"username"`
}

// Review is one rating left on a show
type Review struct {
	ID     int        `json:"id"`
	User   ReviewUser `json:"user"`
	Stars  int        `json:"stars"`
	Review string     `json:"review"`
}

// ShowSummary is the reduced show record the reviews listing nests under
type ShowSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// ShowReviews groups a show with all reviews left on it
type ShowReviews struct {
	Show    ShowSummary `json:"show"`
	Reviews []Review    `json:"reviews"`
}

// AverageStars returns the mean rating, and false when there are no
// reviews to average.
func (s *ShowReviews) AverageStars() (float64, bool) {
	if len(s.Reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, review := range s.Reviews {
		sum += review.Stars
	}
	return float64(sum) / float64(len(s.Reviews)), true
}
