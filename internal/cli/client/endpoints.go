package client

const (
	// Accounts
	endpointSignUp             = "/sign-up"
	endpointLogin              = "/login"
	endpointUsers              = "/users"
	endpointUpdateUser         = "/update-users/%s"
	endpointDeleteUser         = "/delete-users/%s"
	endpointChangePassword     = "/change-password"
	endpointRequestReset       = "/request-password-reset"
	endpointRequestPasswordOTP = "/request-password-otp"

	// Departments
	endpointAddDepartment    = "/add-department"
	endpointDepartments      = "/department"
	endpointDeleteDepartment = "/delete-department/%s"
	endpointUpdateDepartment = "/update-department/%s"

	// Documents
	endpointUpload           = "/upload"
	endpointManualEntry      = "/manual-entry"
	endpointDocuments        = "/documents"
	endpointDocumentsByTitle = "/documents/by-title/%s"
	endpointViewDocument     = "/documents/%s/view"
	endpointApproveDocument  = "/approve_document/%s"
	endpointDeclineDocument  = "/decline_document/%s"
	endpointEditDocument     = "/edit-document/%s"
	endpointDeleteDocument   = "/delete_document/%s"

	// Document types
	endpointAddDocumentInfo = "/add-documentInfo"
	endpointDocumentInfo    = "/documentInfo"
	endpointDeleteDocInfo   = "/delete-documentInfo/%s"

	// Chat
	endpointGenerate         = "/generate"
	endpointConversations    = "/conversations"
	endpointConversationByID = "/conversations/%s"
	endpointConversationMsgs = "/conversations/%s/messages"

	// Analytics
	endpointTopTitles    = "/top-titles"
	endpointSubmitReview = "/submit-review"
	endpointSatisfaction = "/satisfaction"

	// Settings
	endpointGetSettings = "/settings/get-settings"
	endpointUploadLogo  = "/settings/upload-logo"
	endpointChangeName  = "/settings/change-name"
	endpointChangeColor = "/settings/change-color"
)
