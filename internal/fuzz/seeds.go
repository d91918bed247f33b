package fuzztests

import (
	"io/fs"
	"testing"

	runtimeembed "lowerjs/runtime"
)

const maxSeedBytes = 64 << 10

var moduleSeeds = []string{
	``,
	`export default 1;`,
	`import a, { b as c } from "m"; export { a, c };`,
	`import * as ns from "./ns"; export const n = ns.x;`,
	`export * from "./all"; export * as grouped from "./grouped";`,
	`export { default } from "./d"; export { x as y } from "./x";`,
	`import { f } from "lib"; f(); f.call(null); new f();`,
	`export let n = 0; export function inc() { n++; [n] = [n + 1]; ({ n } = { n: 3 }); }`,
	`import { a } from "./m"; a = 1;`,
	`export default class {}`,
	`export default function () { return this; }`,
	`const p = import("./lazy"); export { p };`,
	`"use strict"; export var v = typeof exports, w = typeof module;`,
	`import "side-effect"; for (const k in {}) { continue; }`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range moduleSeeds {
		f.Add([]byte(s))
	}
	// the helper sources are plain scripts with no module syntax
	_ = fs.WalkDir(runtimeembed.HelpersFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		src, err := fs.ReadFile(runtimeembed.HelpersFS(), path)
		if err == nil {
			f.Add(clampSeed(src))
		}
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
