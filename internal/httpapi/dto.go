package httpapi

import "time"

type registerUserRequest struct {
	UserID            string  `json:"user_id"`
	Language          string  `json:"language"`
	Country           string  `json:"country"`
	SafeMode          *bool   `json:"safe_mode"`
	IsPremium         *bool   `json:"is_premium"`
	Email             *string `json:"email"`
	AutoNotifications *bool   `json:"auto_notifications"`
	ViewMode          string  `json:"view_mode"`
}

type addNewsRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Lang        string     `json:"lang"`
	Country     string     `json:"country"`
	Tags        []string   `json:"tags"`
	Source      string     `json:"source"`
	Link        *string    `json:"link"`
	FileID      *string    `json:"file_id"`
	MediaType   string     `json:"media_type"`
	PublishedAt *time.Time `json:"published_at"`
	SourceType  string     `json:"source_type"`
	TTLSeconds  *int       `json:"ttl_seconds"`
}

type newsIDResponse struct {
	NewsID int64 `json:"news_id"`
}

type updateFiltersRequest struct {
	UserID      int     `json:"user_id"`
	Tag         *string `json:"tag"`
	Category    *string `json:"category"`
	Source      *string `json:"source"`
	Language    *string `json:"language"`
	Country     *string `json:"country"`
	ContentType *string `json:"content_type"`
}

type createCustomFeedRequest struct {
	UserID   int                 `json:"user_id"`
	FeedName string              `json:"feed_name"`
	Filters  map[string][]string `json:"filters"`
}

type feedIDResponse struct {
	FeedID int `json:"feed_id"`
}

type switchCustomFeedRequest struct {
	UserID int `json:"user_id"`
	FeedID int `json:"feed_id"`
}

type updateSubscriptionRequest struct {
	UserID    int    `json:"user_id"`
	Frequency string `json:"frequency"`
}

type bookmarkRequest struct {
	UserID int   `json:"user_id"`
	NewsID int64 `json:"news_id"`
}

type addCommentRequest struct {
	UserID          int    `json:"user_id"`
	NewsID          int64  `json:"news_id"`
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

type commentIDResponse struct {
	CommentID int64 `json:"comment_id"`
}

type rateRequest struct {
	UserID int   `json:"user_id"`
	NewsID int64 `json:"news_id"`
	Value  int   `json:"value"`
}

type blockRequest struct {
	UserID    int    `json:"user_id"`
	BlockType string `json:"block_type"`
	Value     string `json:"value"`
}

type reportRequest struct {
	UserID int    `json:"user_id"`
	NewsID *int64 `json:"news_id"`
	Reason string `json:"reason"`
}

type reportIDResponse struct {
	ReportID int64 `json:"report_id"`
}

type logActivityRequest struct {
	UserID int    `json:"user_id"`
	NewsID int64  `json:"news_id"`
	Action string `json:"action"`
}

type summaryRequest struct {
	NewsID *int64 `json:"news_id"`
	Text   *string `json:"text"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type verifyResponse struct {
	IsFake     bool    `json:"is_fake"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

type rewriteHeadlineRequest struct {
	Text string `json:"text"`
}

type rewriteHeadlineResponse struct {
	Text string `json:"text"`
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	SourceLanguage string `json:"source_language"`
}

type translateResponse struct {
	Text string `json:"text"`
}

type generateInviteRequest struct {
	InviterUserID int `json:"inviter_user_id"`
}

type inviteCodeResponse struct {
	InviteCode string `json:"invite_code"`
}

type acceptInviteRequest struct {
	InviteCode    string `json:"invite_code"`
	InvitedUserID int    `json:"invited_user_id"`
}

type addSourceRequest struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Link   string `json:"link"`
	Type   string `json:"type"`
}

type sourceIDResponse struct {
	SourceID int `json:"source_id"`
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

type moderateRequest struct {
	AdminUserID int     `json:"admin_user_id"`
	ActionType  string  `json:"action_type"`
	TargetID    *int64  `json:"target_id"`
	Details     *string `json:"details"`
}
