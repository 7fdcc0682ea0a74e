package core

// word valences on a -4..4 scale
var lexicon = map[string]float64{
	// general
	"good": 1.9, "great": 3.1, "excellent": 2.7, "amazing": 2.8, "awesome": 3.1,
	"best": 3.2, "better": 1.9, "nice": 1.8, "positive": 2.6, "happy": 2.7,
	"love": 3.2, "like": 1.5, "win": 2.8, "wins": 2.7, "won": 2.7, "winning": 2.4,
	"success": 2.7, "successful": 2.8, "strong": 2.3, "stronger": 2.0, "strongest": 2.2,
	"hope": 1.9, "hopeful": 1.6, "optimism": 2.5, "optimistic": 1.3, "confident": 2.2,
	"confidence": 2.3, "benefit": 2.0, "benefits": 1.6, "improve": 1.9, "improved": 2.1,
	"improvement": 2.0, "improves": 1.8, "support": 1.7, "supports": 1.5, "supported": 1.3,
	"welcome": 2.0, "welcomed": 1.9, "boost": 1.7, "boosts": 1.3, "boosted": 1.5,
	"secure": 1.4, "safe": 1.9, "stable": 1.2, "stability": 1.7, "progress": 1.8,
	"opportunity": 1.8, "opportunities": 1.6, "advantage": 1.0, "innovative": 1.9,
	"innovation": 1.6, "efficient": 1.8, "reward": 2.0, "rewarding": 2.4, "resilient": 1.2,
	"robust": 1.4, "solid": 0.6, "healthy": 1.7, "bright": 1.9, "promising": 1.7,
	"celebrate": 2.7, "praise": 2.6, "praised": 2.2, "impressive": 2.3, "favorable": 2.1,
	"fantastic": 2.6, "perfect": 2.7, "wonderful": 2.7, "pleased": 1.9, "satisfied": 1.8,
	"thrive": 2.3, "thriving": 2.1, "upgrade": 1.1, "upgraded": 1.2, "recover": 1.3,
	"recovery": 1.4, "recovered": 1.7, "rebound": 1.1, "rebounds": 1.1, "tops": 1.5,

	"bad": -2.5, "worse": -2.1, "worst": -3.1, "poor": -2.1, "negative": -2.7,
	"sad": -2.1, "hate": -2.7, "lose": -1.6, "loses": -1.9, "losing": -1.6, "lost": -1.3,
	"loss": -1.3, "losses": -1.7, "fail": -2.5, "failed": -2.3, "failure": -2.3, "fails": -1.8,
	"weak": -1.9, "weaker": -1.9, "weakness": -1.6, "fear": -2.2, "fears": -1.8, "afraid": -2.2,
	"worry": -1.9, "worried": -1.2, "worries": -1.8, "concern": -1.0, "concerns": -1.2,
	"concerned": -1.3, "risk": -1.1, "risks": -1.1, "risky": -1.4, "threat": -2.4,
	"threatens": -1.6, "crisis": -3.1, "problem": -1.7, "problems": -1.7, "trouble": -1.7,
	"troubled": -2.0, "damage": -2.2, "damaged": -1.9, "harm": -2.5, "hurt": -2.4,
	"hurts": -2.1, "decline": -1.1, "declined": -1.3, "declines": -1.0, "declining": -1.3,
	"drop": -1.1, "dropped": -1.2, "drops": -1.0, "fall": -0.9, "falls": -1.0, "fell": -1.0,
	"plunge": -2.0, "plunges": -2.1, "plunged": -2.0, "crash": -1.7, "crashed": -1.8,
	"collapse": -2.2, "collapsed": -2.4, "slump": -1.8, "slumps": -1.6, "tumble": -1.4,
	"tumbles": -1.4, "sink": -1.2, "sinks": -1.1, "slide": -0.8, "slides": -0.9,
	"warn": -1.4, "warns": -1.6, "warning": -1.4, "volatile": -0.7, "uncertain": -1.2,
	"uncertainty": -1.4, "fraud": -2.8, "scandal": -1.9, "scam": -2.7, "lawsuit": -0.9,
	"penalty": -2.0, "fine": 0.8, "fined": -1.5, "ban": -2.6, "banned": -2.0, "default": -0.9,
	"defaults": -1.1, "bankrupt": -2.6, "bankruptcy": -2.8, "debt": -1.5, "downgrade": -1.5,
	"downgraded": -1.9, "cut": -1.1, "cuts": -1.2, "layoff": -1.8, "layoffs": -1.9,
	"shortage": -1.5, "weakens": -1.3, "disappoint": -1.7, "disappointing": -2.2,
	"disappointed": -1.9, "terrible": -2.1, "awful": -2.0, "horrible": -2.5, "angry": -2.3,
	"panic": -2.1, "pressure": -1.2, "pressures": -1.2, "stress": -1.8, "stressed": -1.4,
	"struggle": -1.3, "struggles": -1.5, "struggling": -1.8, "deficit": -1.7, "recession": -2.2,
	"inflationary": -1.0, "selloff": -1.6, "dispute": -1.7, "protest": -1.0, "strike": -0.5,
	"delay": -1.3, "delayed": -0.9, "halt": -1.0, "halted": -1.2, "probe": -0.7, "unrest": -1.8,

	// market vocabulary
	"profit": 1.9, "profits": 1.9, "profitable": 1.9, "gain": 2.0, "gains": 1.8,
	"gained": 1.6, "growth": 1.6, "grow": 1.2, "grows": 1.3, "growing": 1.1,
	"rally": 1.5, "rallies": 1.4, "rallied": 1.5, "surge": 1.6, "surges": 1.5, "surged": 1.6,
	"soar": 2.0, "soars": 2.0, "soared": 2.0, "jump": 0.8, "jumps": 0.9, "jumped": 0.9,
	"rise": 0.9, "rises": 0.9, "rising": 0.8, "rose": 0.8, "climb": 0.9, "climbs": 0.9,
	"record": 0.8, "outperform": 1.6, "outperforms": 1.6, "beat": 0.9, "beats": 0.8,
	"bullish": 1.9, "upbeat": 1.5, "dividend": 1.0, "dividends": 1.0, "expansion": 1.2,
	"expand": 1.0, "expands": 1.0, "milestone": 1.4, "approval": 1.6, "approved": 1.8,
	"bearish": -1.9, "downturn": -1.8, "underperform": -1.6, "miss": -1.0, "misses": -1.1,
	"missed": -1.2, "writedown": -1.4, "impairment": -1.5, "overvalued": -1.0,
	"slowdown": -1.5, "stagnant": -1.3, "stagnation": -1.6, "volatility": -0.6,
}

var boosters = map[string]float64{
	"absolutely": boosterIncrement, "amazingly": boosterIncrement, "completely": boosterIncrement,
	"considerably": boosterIncrement, "decidedly": boosterIncrement, "deeply": boosterIncrement,
	"enormously": boosterIncrement, "entirely": boosterIncrement, "especially": boosterIncrement,
	"exceptionally": boosterIncrement, "extremely": boosterIncrement, "greatly": boosterIncrement,
	"highly": boosterIncrement, "hugely": boosterIncrement, "incredibly": boosterIncrement,
	"intensely": boosterIncrement, "majorly": boosterIncrement, "more": boosterIncrement,
	"most": boosterIncrement, "particularly": boosterIncrement, "purely": boosterIncrement,
	"quite": boosterIncrement, "really": boosterIncrement, "remarkably": boosterIncrement,
	"sharply": boosterIncrement, "significantly": boosterIncrement, "so": boosterIncrement,
	"substantially": boosterIncrement, "thoroughly": boosterIncrement, "totally": boosterIncrement,
	"tremendously": boosterIncrement, "very": boosterIncrement, "strongly": boosterIncrement,

	"almost": boosterDecrement, "barely": boosterDecrement, "hardly": boosterDecrement,
	"less": boosterDecrement, "little": boosterDecrement, "marginally": boosterDecrement,
	"occasionally": boosterDecrement, "partly": boosterDecrement, "scarcely": boosterDecrement,
	"slightly": boosterDecrement, "somewhat": boosterDecrement, "modestly": boosterDecrement,
}

var negations = map[string]struct{}{
	"aint": {}, "arent": {}, "cannot": {}, "cant": {}, "couldnt": {}, "darent": {},
	"didnt": {}, "doesnt": {}, "dont": {}, "hadnt": {}, "hasnt": {}, "havent": {},
	"isnt": {}, "mightnt": {}, "mustnt": {}, "neither": {}, "never": {}, "none": {},
	"nope": {}, "nor": {}, "not": {}, "nothing": {}, "nowhere": {}, "shouldnt": {},
	"wasnt": {}, "werent": {}, "without": {}, "wont": {}, "wouldnt": {}, "no": {},
	"rarely": {}, "seldom": {}, "despite": {},
}
