package extract

import "testing"

func mustDoc(t *testing.T, url, markup string) *PageDocument {
	t.Helper()
	doc, err := NewPageDocumentFromString(url, markup)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   PageType
	}{
		{
			name:   "og type product",
			markup: `<html><head><meta property="og:type" content="product"></head><body></body></html>`,
			want:   ProductPage,
		},
		{
			name:   "brand title with product token",
			markup: `<html><head><title>Great Product | TikTok Shop</title></head><body></body></html>`,
			want:   ProductPage,
		},
		{
			name:   "brand title without product token",
			markup: `<html><head><title>Deals for you | TikTok Shop</title></head><body></body></html>`,
			want:   ListingPage,
		},
		{
			name:   "itemprop price meta",
			markup: `<html><head><meta itemprop="price" content="9.99"></head><body></body></html>`,
			want:   ProductPage,
		},
		{
			name:   "product price amount meta",
			markup: `<html><head><meta property="product:price:amount" content="9.99"></head><body></body></html>`,
			want:   ProductPage,
		},
		{
			name:   "default listing",
			markup: `<html><head><title>Some other page</title></head><body><p>hello</p></body></html>`,
			want:   ListingPage,
		},
		{
			name:   "empty document",
			markup: ``,
			want:   ListingPage,
		},
		{
			name:   "malformed markup never fails",
			markup: `<html><head><title>broken</ti`,
			want:   ListingPage,
		},
		{
			name: "og type wins over price meta",
			markup: `<html><head>
				<meta property="og:type" content="product">
				<title>Deals for you | TikTok Shop</title>
			</head><body></body></html>`,
			want: ProductPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, "https://shop.example.test/page", tt.markup)
			if got := Classify(doc); got != tt.want {
				t.Fatalf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
