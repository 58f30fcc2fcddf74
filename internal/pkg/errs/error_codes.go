/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Messaging and Assistant Business Logic Errors
const (
	// ErrMessageEmpty indicates that a chat message was submitted without any text.
	ErrMessageEmpty = 2101

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2102

	// ErrThreadUnavailable indicates that the expert conversation thread has been shut down.
	ErrThreadUnavailable = 2103
)

// 3xxx: User and Session Errors
const (
	// ErrUnauthorized indicates that the request requires a signed-in session.
	ErrUnauthorized = 3001

	// ErrAlreadyLoggedIn indicates that the client attempted to sign in while already holding a session.
	ErrAlreadyLoggedIn = 3002

	// ErrSkillIncomplete indicates that an added skill is missing its name or description.
	ErrSkillIncomplete = 3003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
