package business

type UpdateBusinessRequestDto struct {
	DisplayName *string   `json:"displayName" binding:"omitempty,min=2,max=255"`
	Address     *string   `json:"address" binding:"omitempty,max=500"`
	Phone       *string   `json:"phone" binding:"omitempty,max=50"`
	WebhookURLs *[]string `json:"webhookUrls"`
}
