package service

import "github.com/alexanderramin/timeblock/internal/app"

type ProposeService interface {
	app.InterpretUseCase
	app.ProposeUseCase
}

type PlanService interface {
	app.PlanUseCase
}

type CalendarService interface {
	app.CalendarImportUseCase
}

type DraftService interface {
	app.DraftReviewUseCase
}
