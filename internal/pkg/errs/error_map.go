/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling. Client-facing messages
are in Arabic, matching the platform's audience.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "الطلب غير صالح."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "صيغة الطلب غير مدعومة."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "صيغة الطلب غير مدعومة."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "الطلب يحتوي على بيانات غير متوقعة."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "عدد كبير من الطلبات. يرجى المحاولة لاحقاً.", Status: http.StatusTooManyRequests},

	// 2xxx: Messaging and Assistant Business Logic Errors
	ErrMessageEmpty:          {Code: ErrMessageEmpty, Message: "لا يمكن إرسال رسالة فارغة."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "الرسالة طويلة جداً."},
	ErrThreadUnavailable:     {Code: ErrThreadUnavailable, Message: "المحادثة لم تعد متاحة."},

	// 3xxx: User and Session Errors
	ErrUnauthorized:    {Code: ErrUnauthorized, Message: "يرجى تسجيل الدخول للمتابعة.", Status: http.StatusUnauthorized},
	ErrAlreadyLoggedIn: {Code: ErrAlreadyLoggedIn, Message: "أنت مسجل الدخول بالفعل."},
	ErrSkillIncomplete: {Code: ErrSkillIncomplete, Message: "يرجى إدخال اسم المهارة ووصفها."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "حدث خطأ ما. يرجى المحاولة مرة أخرى.", Status: http.StatusInternalServerError},
}
