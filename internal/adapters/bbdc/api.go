package bbdc

import "encoding/json"

// Endpoint paths under the backend's base URL. All calls are POSTs with a
// JSON body and a uniform {success, message, data} envelope in response.
const (
	pathLoginCaptcha   = "/bbdc-back-service/api/auth/getLoginCaptchaImage"
	pathBookingCaptcha = "/bbdc-back-service/api/booking/manage/getCaptchaImage"
	pathLogin          = "/bbdc-back-service/api/auth/login"
	pathCourseList     = "/bbdc-back-service/api/account/listAccountCourseType"
	pathListSlots      = "/bbdc-back-service/api/booking/c3practical/listC3PracticalSlotReleased"
	pathBookSlot       = "/bbdc-back-service/api/booking/c3practical/bookC3PracticalSlot"
	pathListBookings   = "/bbdc-back-service/api/booking/manage/listAllPracticalBooking"
	pathCancelBooking  = "/bbdc-back-service/api/booking/manage/cancelBooking"
)

// statusSessionExpired is the distinguished transport status the backend
// uses when the session token is no longer valid. It is recovered by
// reauthentication, never surfaced as an ordinary failure.
const statusSessionExpired = 402

// envelope is the uniform response wrapper. Success must be checked before
// trusting Data.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginRequest struct {
	CaptchaToken    string `json:"captchaToken"`
	UserID          string `json:"userId"`
	UserPass        string `json:"userPass"`
	VerifyCodeID    string `json:"verifyCodeId"`
	VerifyCodeValue string `json:"verifyCodeValue"`
}

type loginData struct {
	Token    string `json:"tokenContent"`
	Username string `json:"username"`
}

type courseListData struct {
	ActiveCourseList []struct {
		AuthToken string `json:"authToken"`
	} `json:"activeCourseList"`
}

type listSlotsRequest struct {
	CourseType        string  `json:"courseType"`
	InsInstructorID   string  `json:"insInstructorId"`
	ReleasedSlotMonth string  `json:"releasedSlotMonth"`
	StageSubDesc      string  `json:"stageSubDesc"`
	SubVehicleType    *string `json:"subVehicleType"`
	SubStageSubNo     *int    `json:"subStageSubNo"`
}

type listSlotsData struct {
	// day -> records, decoded manually to preserve the server's day order
	ReleasedSlotListGroupByDay json.RawMessage `json:"releasedSlotListGroupByDay"`
}

type encryptedSlot struct {
	SlotIDEnc          string `json:"slotIdEnc"`
	BookingProgressEnc string `json:"bookingProgressEnc"`
}

type bookRequest struct {
	VerifyCodeID    string          `json:"verifyCodeId"`
	VerifyCodeValue string          `json:"verifyCodeValue"`
	CaptchaToken    string          `json:"captchaToken"`
	CourseType      string          `json:"courseType"`
	CacheID         string          `json:"cacheId"`
	SlotIDList      []int64         `json:"slotIdList"`
	EncryptSlotList []encryptedSlot `json:"encryptSlotList"`
}

type courseRequest struct {
	CourseType string `json:"courseType"`
}

type listBookingsData struct {
	TheoryActiveBookingList []json.RawMessage `json:"theoryActiveBookingList"`
}

type cancelRequest struct {
	BookingID  int64  `json:"bookingId"`
	TheoryType string `json:"theoryType"`
	ManageType string `json:"manageType"`
}
