package classify

import (
	"regexp"
	"strings"

	"github.com/bastiangx/catalogserve/pkg/catalog"
)

// CSE sub-categories.
const (
	SubDL      = "DL"
	SubAndroid = "ANDROID"
	SubML      = "ML"
	SubWeb     = "WEB"
	SubOther   = "OTHER"
)

var (
	dlKeywords = []string{
		"deep learning", "cnn", "convolutional neural", "rnn", "lstm",
		"transformer", "bert", "gpt", "neural network", "neural-net",
		"vision transformer", "resnet", "mobilenet", "yolov", "ssd",
		"object detection", "segmentation",
	}
	androidKeywords = []string{
		"android", "apk", "android studio", "kotlin", "java app",
		"mobile app", "mobile application", "play store", "flutter",
	}
	mlKeywords = []string{
		"machine learning", "ml", "artificial intelligence", "ai", "predict",
		"prediction", "predictive", "classification", "regression", "svm",
		"support vector", "random forest", "data science", "data mining",
		"nlp", "natural language", "sentiment analysis", "k-means",
		"logistic regression", "decision tree",
	}
	webKeywords = []string{
		"web", "website", "webapp", "web app", "html", "css", "javascript",
		"react", "next.js", "nextjs", "vue", "angular", "frontend",
		"front-end", "backend", "back-end", "full stack", "full-stack",
		"mern", "mean", "django", "flask", "node", "express", "php",
		"laravel", "wordpress", "tailwind", "bootstrap",
	}
)

// matcher tests one keyword against lowercase text.
type matcher func(text string) bool

// rule pairs a sub-category with the keywords that select it.
type rule struct {
	sub      string
	matchers []matcher
}

func (r rule) match(text string) bool {
	for _, m := range r.matchers {
		if m(text) {
			return true
		}
	}
	return false
}

// subRules is evaluated in order; the first rule with a hit wins. DL sits
// ahead of ANDROID so a CNN model shipped as an APK is still DL.
var subRules = []rule{
	newRule(SubDL, dlKeywords),
	newRule(SubAndroid, androidKeywords),
	newRule(SubML, mlKeywords),
	newRule(SubWeb, webKeywords),
}

func newRule(sub string, keywords []string) rule {
	r := rule{sub: sub}
	for _, kw := range keywords {
		if m := newMatcher(kw); m != nil {
			r.matchers = append(r.matchers, m)
		}
	}
	return r
}

// newMatcher matches keywords of up to two characters on word boundaries
// and longer ones as plain substrings.
func newMatcher(keyword string) matcher {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil
	}
	if len(kw) <= 2 {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		return re.MatchString
	}
	return func(text string) bool {
		return strings.Contains(text, kw)
	}
}

// CseSubCategory classifies it into a CSE track using its searchable text.
// It is only meaningful for items whose Primary is CSE.
func CseSubCategory(it *catalog.Item) string {
	text := it.SearchText()
	if text == "" {
		return SubOther
	}
	for _, r := range subRules {
		if r.match(text) {
			return r.sub
		}
	}
	return SubOther
}

// IsAndroid reports whether it classifies as an Android project.
func IsAndroid(it *catalog.Item) bool {
	return CseSubCategory(it) == SubAndroid
}
