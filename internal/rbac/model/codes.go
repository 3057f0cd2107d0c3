package model

// Stable machine-readable error codes returned to callers.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeEngineFailure   = "ENGINE_UNAVAILABLE"

	// Catalog
	CodeRoleNotFound          = "ROLE_NOT_FOUND"
	CodeDuplicateRoleCode     = "DUPLICATE_ROLE_CODE"
	CodeInvalidRoleType       = "INVALID_ROLE_TYPE"
	CodeVirtualGroupNotFound  = "VIRTUAL_GROUP_NOT_FOUND"
	CodeDuplicateGroupCode    = "DUPLICATE_GROUP_CODE"
	CodeBusinessUnitNotFound  = "BUSINESS_UNIT_NOT_FOUND"
	CodeDuplicateUnitCode     = "DUPLICATE_UNIT_CODE"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeUserNotActive         = "USER_NOT_ACTIVE"
	CodeUnknownPermission     = "UNKNOWN_PERMISSION"
	CodeSystemGroupProtected  = "SYSTEM_GROUP_PROTECTED"
	CodeNotBound              = "NOT_BOUND"
	CodeAlreadyBound          = "ALREADY_BOUND"
	CodeAlreadyMember         = "ALREADY_MEMBER"
	CodeNotMember             = "NOT_MEMBER"
	CodeInvalidTargetType     = "INVALID_TARGET_TYPE"
	CodeAlreadyApprover       = "ALREADY_APPROVER"
	CodeApproverNotFound      = "APPROVER_NOT_FOUND"
	CodeNotApprover           = "NOT_APPROVER"
	CodeNoApprover            = "NO_APPROVER"
	CodeNoBuBoundedRole       = "NO_BU_BOUNDED_ROLE"
	CodeDuplicateRequest      = "DUPLICATE_REQUEST"
	CodeRequestNotFound       = "REQUEST_NOT_FOUND"
	CodeInvalidStatus         = "INVALID_STATUS"
	CodeSelfApproval          = "SELF_APPROVAL"
	CodeNotApplicant          = "NOT_APPLICANT"
	CodeCommentRequired       = "COMMENT_REQUIRED"
	CodeInvalidRequestType    = "INVALID_REQUEST_TYPE"
	CodeTaskNotFound          = "TASK_NOT_FOUND"
	CodeTaskCompleted         = "TASK_COMPLETED"
	CodeTaskNotClaimable      = "TASK_NOT_CLAIMABLE"
	CodeTaskAlreadyClaimed    = "TASK_ALREADY_CLAIMED"
	CodeTaskNotClaimed        = "TASK_NOT_CLAIMED"
	CodeNotClaimant           = "NOT_CLAIMANT"
	CodeNotAuthorized         = "NOT_AUTHORIZED"
	CodeNotGroupMember        = "NOT_GROUP_MEMBER"
	CodeInvalidTarget         = "INVALID_TARGET"
	CodeInvalidPriority       = "INVALID_PRIORITY"
	CodeInvalidDelegate       = "INVALID_DELEGATE"
)
