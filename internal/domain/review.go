package domain

import "time"

// Review is a customer review. Date is formatted YYYY-MM-DD.
type Review struct {
	ID      int64  `json:"id"`
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

// ReviewInput is a submitted review before it is dated and numbered.
type ReviewInput struct {
	Author  string `json:"author" validate:"notblank,max=100"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"notblank,max=2000"`
}

// Question is a customer question with an optional answer.
type Question struct {
	ID       int64     `json:"id"`
	Author   string    `json:"author"`
	Question string    `json:"question"`
	Answer   *string   `json:"answer"`
	Date     time.Time `json:"date"`
}

func (q Question) clone() Question {
	if q.Answer != nil {
		a := *q.Answer
		q.Answer = &a
	}
	return q
}

// QuestionInput is a submitted question. Author may be blank.
type QuestionInput struct {
	Author   string `json:"author" validate:"max=100"`
	Question string `json:"question" validate:"notblank,max=1000"`
}

// GuestAuthor is used for questions submitted without a name.
const GuestAuthor = "Guest"

// ReviewDateLayout formats Review.Date.
const ReviewDateLayout = "2006-01-02"
