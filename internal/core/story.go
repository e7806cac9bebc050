package core

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

var storyTemplates = []string{
	"For {{name}}, the dream of becoming a {{ambition}} wasn't just a fleeting thought; it was a universe of possibilities that sparked at the young age of {{age}}.",
	"At {{age}} years old, {{name}} looked at the world and saw a future as a pioneering {{ambition}}. This dream became a guiding star, lighting a path toward a life of passion and purpose.",
	"Every great journey begins with a single idea. For {{name}}, that idea was to become a {{ambition}}, a goal that took root at age {{age}} and has inspired every step since.",
	"The world is shaped by those who dare to dream. At {{age}}, {{name}}'s dream was to become a {{ambition}}, a vision of a future filled with innovation, creativity, and impact.",
	"Some dreams are whispered, others are declared. At age {{age}}, {{name}}'s ambition to be a {{ambition}} was a clear and powerful call to a future waiting to be built.",
	"From a young age, {{name}} knew that the path of a {{ambition}} was their destiny. This ambition, formed at {{age}}, is a testament to the power of youthful conviction and a lifelong pursuit of excellence.",
	"Imagine being {{age}} and knowing exactly what you want to achieve. For {{name}}, that clarity came in the form of a powerful ambition: to become an incredible {{ambition}}.",
}

// FillStory interpolates name, age and ambition into template.
func FillStory(template, name string, age int, ambition string) string {
	return strings.NewReplacer(
		"{{name}}", name,
		"{{age}}", strconv.Itoa(age),
		"{{ambition}}", ambition,
	).Replace(template)
}

// RandomStory picks one template with pick (which must return a value in [0,n))
// and fills it. A nil pick uses math/rand/v2.
func RandomStory(pick func(n int) int, name string, age int, ambition string) string {
	if pick == nil {
		pick = rand.IntN
	}
	return FillStory(storyTemplates[pick(len(storyTemplates))], name, age, ambition)
}
