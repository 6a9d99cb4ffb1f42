package domain

// CaptchaAnswerLength is the fixed answer length the backend accepts. A
// solver guess of any other length is rejected locally before submission.
const CaptchaAnswerLength = 5

// CaptchaChallenge is one challenge/answer round. The server correlates the
// eventual answer to the challenge through ID and Token; Image carries the
// data-URI encoded PNG until it is decoded and handed to the solver. A
// challenge is consumed by exactly one login or booking call and never
// reused.
type CaptchaChallenge struct {
	ID    string `json:"verifyCodeId"`
	Token string `json:"captchaToken"`
	Image string `json:"image"`

	Answer string `json:"-"`
}
