package domain

const (
	QuestionTypeSingleChoice          = "single_choice"
	QuestionTypeMultipleChoice        = "multiple_choice"
	QuestionTypeMultipleChoiceLimited = "multiple_choice_limited"
	QuestionTypeText                  = "text"
)

// IsKnownQuestionType reports whether t is one of the supported question type tags.
func IsKnownQuestionType(t string) bool {
	switch t {
	case QuestionTypeSingleChoice, QuestionTypeMultipleChoice, QuestionTypeMultipleChoiceLimited, QuestionTypeText:
		return true
	}
	return false
}

// IsMultiSelect reports whether answers to a question of type t are lists.
func IsMultiSelect(t string) bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeMultipleChoiceLimited
}

const (
	TimerActionStart      = "start"
	TimerActionStop       = "stop"
	TimerActionReset      = "reset"
	TimerActionInitialize = "initialize"
)

const (
	AuditRegister       = "register"
	AuditLogin          = "login"
	AuditTimerUpdate    = "timer_update"
	AuditQuestionCreate = "question_create"
	AuditQuestionUpdate = "question_update"
	AuditQuestionDelete = "question_delete"
	AuditSurveySubmit   = "survey_submit"
	AuditLuckyDraw      = "lucky_draw"
)

// SessionCookie is the name of the http-only cookie carrying the session token.
const SessionCookie = "token"
