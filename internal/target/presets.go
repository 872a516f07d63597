package target

import "fmt"

// Presets are the data sets the original exercises shipped with: four
// targets hashed from two-initial plaintexts and four from three-initial
// plaintexts, all with salt "$6$KB$".
var presets = map[string][]string{
	"two-initial": {
		"$6$KB$3MiAO5oLs/.coZCPQ2QYOy8Ozo3v7QzGdwBEv3N7E0pJen3CJ63DmYXIZz6KEsykHmGsu3Dh1KCNe0niN0wvx/",
		"$6$KB$jyDvGJlpBoZ7V0LmBQMe8IRWBBOs5iptBLdOhT4LNJClRiXwfx4ul/IlCXEgzYOUjIhmBUJKNfHPVmJP3dueR1",
		"$6$KB$iyAdOw/ziDVBE0sXz8H3YRvGMVpqgV0DTg0dVbtPUyheOGYQGWP0C0g4hXnGTMZtUT0NXtmeaMY1Q6ykJqcTw0",
		"$6$KB$Uz4cD9uzcYjtg9/zNnA4wdLtqlTWw42taHPdqzfJYQOmv2Ct79UJ8e11XtqdxzH3E58trHonpZFDOwYRwJPGs1",
	},
	"three-initial": {
		"$6$KB$u3Udg2.tSd3sUGHvTvL8U7K6qdVUrNwLOo4yzgerr0ty32wmymZ0x23k.6btiED1H8/qqajavj1pUwYNyLcmf0",
		"$6$KB$Q2EIAiLddE.KV3lIzGOsjrzj4CcowgDU3RK4lEbs7WSPms86jhIf8KzyOIJiApCKg13h6p3z06d3646ER0pVf/",
		"$6$KB$e5KEpWhudmb6hfQLFwyGTfeauwNCIOetz/G1n65uEwAS5daJMvqIMt77.y.kWnuAefEqTMkASsPCnMcIGlFzy.",
		"$6$KB$zxzPi8wWZCuIi25BYR7EFgdD4WDOcGXzlQjNKrIRftsWBhEcTiCBB.7f48YWLETLHha/qBYjzWVGuwJI7xRgG1",
	},
}

// Preset returns a copy of the named built-in target list.
func Preset(name string) ([]string, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown target preset %q (want two-initial or three-initial)", name)
	}
	return append([]string(nil), p...), nil
}
