package model

// Profile holds the owner's styling attributes. All fields are optional.
type Profile struct {
	UserID           string   `json:"userId,omitempty"`
	Email            string   `json:"email,omitempty"`
	Name             string   `json:"name,omitempty"`
	Age              string   `json:"age,omitempty"`
	Gender           string   `json:"gender,omitempty"`
	HeightRange      string   `json:"heightRange,omitempty"`
	BodyType         string   `json:"bodyType,omitempty"`
	SkinTone         string   `json:"skinTone,omitempty"`
	FavouriteColours []string `json:"favouriteColours,omitempty"`
	Region           string   `json:"region,omitempty"`
	LanguagePref     string   `json:"languagePref,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
}

// WardrobeItem is a piece of clothing the owner has catalogued.
type WardrobeItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// AddWardrobeItemRequest is the body of POST /wardrobe.
type AddWardrobeItemRequest struct {
	Item WardrobeItem `json:"item"`
}

// ListWardrobeResponse is the response for listing wardrobe items.
type ListWardrobeResponse struct {
	Items []WardrobeItem `json:"items"`
}

// GenerateImageRequest is the body of POST /image.
type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
}

// UploadImageRequest carries a base64 image, optionally data-URL prefixed.
type UploadImageRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// ImageResponse carries the public URL of a stored image.
type ImageResponse struct {
	Success bool   `json:"success,omitempty"`
	URL     string `json:"url"`
}

// ProfileResponse is returned after a profile upsert with the fields written.
type ProfileResponse struct {
	Success bool     `json:"success"`
	Profile *Profile `json:"profile"`
}

// LinkAccountRequest moves data stored under a legacy local id to the caller.
type LinkAccountRequest struct {
	OldUserID string `json:"oldUserId"`
	DeleteOld bool   `json:"deleteOld,omitempty"`
}

// LinkAccountResponse reports what was moved.
type LinkAccountResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Profile  bool   `json:"profile"`
	Wardrobe int    `json:"wardrobe"`
	Chats    int    `json:"chats"`
	Messages int    `json:"messages"`
}
