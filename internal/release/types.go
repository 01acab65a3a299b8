// Package release resolves a release tag to its downloadable assets using the
// GitHub Releases API.
package release

// Release is the subset of the GET /repos/{owner}/{repo}/releases/tags/{tag}
// response needed to locate assets.
type Release struct {
	TagName string  `json:"tag_name"`
	Name    string  `json:"name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	// Name is the filename of the asset. Selection rules and archive format
	// detection both operate on it.
	Name string `json:"name"`

	// BrowserDownloadURL is the public URL for downloading the asset.
	BrowserDownloadURL string `json:"browser_download_url"`

	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// AssetNames returns the asset names in API order.
func (r *Release) AssetNames() []string {
	names := make([]string, 0, len(r.Assets))
	for _, a := range r.Assets {
		names = append(names, a.Name)
	}
	return names
}
