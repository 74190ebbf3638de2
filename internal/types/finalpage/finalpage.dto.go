package finalpage

type UpsertFinalPageRequest struct {
	PageTitle       *string  `json:"pageTitle,omitempty"`
	PageDescription *string  `json:"pageDescription,omitempty"`
	PageLocation    *string  `json:"pageLocation,omitempty"`
	PageExpiryDate  *string  `json:"pageExpiryDate,omitempty"`
	PageVideoURL    *string  `json:"pageVideoUrl,omitempty"`
	PageImageURLs   []string `json:"pageImageUrls,omitempty"`
}

type AddEntryRequest struct {
	Text     string `json:"text" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
}
