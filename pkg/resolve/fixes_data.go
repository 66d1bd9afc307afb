package resolve

// manualFixes corrects tokens the dictionary tiers reliably get wrong:
// pronouns, fillers, honorifics and franchise vocabulary.
var manualFixes = map[string]Fix{
	// pronouns and responses
	"私":   {Reading: "わたし", Meaning: "I / Me"},
	"僕":   {Reading: "ぼく", Meaning: "I / Me (Male pronoun)"},
	"俺":   {Reading: "おれ", Meaning: "I / Me (Masculine)"},
	"あんた": {Reading: "あんた", Meaning: "You (informal/blunt)"},
	"奴":   {Reading: "やつ", Meaning: "Guy / Person / Fellow / That thing"},
	"人":   {Reading: "ひと", Meaning: "Person / People"},
	"様":   {Reading: "さま", Meaning: "Sama (Honorific suffix)"},
	"この":  {Reading: "この", Meaning: "This (Demonstrative)"},
	"今":   {Reading: "いま", Meaning: "Now"},
	"何":   {Reading: "なに", Meaning: "What"},
	"うん":  {Reading: "うん", Meaning: "Yeah / Yes (casual)"},
	"ううん": {Reading: "ううん", Meaning: "No (casual)"},
	"いえ":  {Reading: "いえ", Meaning: "No / Not at all (Polite interjection)"},
	"ダメ":  {Reading: "だめ", Meaning: "No / Bad / Forbidden / Useless"},

	// particles, interjections, fillers
	"ねえ":   {Reading: "ねえ", Meaning: "Hey! / Look! / (seeking agreement) / No / Not (Slang negative)"},
	"なあ":   {Reading: "なあ", Meaning: "Hey / I wonder (sentence ending particle)"},
	"ちょっと": {Reading: "ちょっと", Meaning: "A little / A moment"},
	"えっと":  {Reading: "えっと", Meaning: "Umm... / Let me see... (Filler word)"},
	"って":   {Reading: "って", Meaning: `Quotation particle / "They say..." / Topic marker`},
	"コラ":   {Reading: "こら", Meaning: "Hey! / Listen! / Watch out! (Interjection)"},
	"ッ":    {Reading: "ッ", Meaning: "(Glottal stop / Emphasis marker / Clipped sound)"},
	"リ":    {Reading: "り", Meaning: "(Stuttering sound / Part of a name)"},
	"くらい":  {Reading: "くらい", Meaning: "Around / Approximately (Time/Amount)"},

	// grammar and conjugation
	"てる":  {Reading: "てる", Meaning: "is... -ing (Contraction of te-iru)"},
	"ます":  {Reading: "ます", Meaning: "Polite verb ending"},
	"たい":  {Reading: "たい", Meaning: "Want to... (Verb suffix)"},
	"そう":  {Reading: "そう", Meaning: "So / That way / Seeming"},
	"やがる": {Reading: "やがる", Meaning: "Pejorative auxiliary verb (indicates contempt)"},
	"がん":  {Reading: "がん", Meaning: `Rough version of "yagaru" (not cancer)`},
	"やん":  {Reading: "やん", Meaning: "Part of contraction (yaru -> yannakya) / Emphasis"},
	"前":   {Reading: "まえ", Meaning: "Before / Front / Previous"},

	// Kansai-ben
	"なあかん": {Reading: "なあかん", Meaning: "Must do / Have to (Kansai-ben)"},
	"へん":   {Reading: "へん", Meaning: `Negative verb ending (Kansai-ben "nai")`},

	// Lucky Star, K-ON!, school
	"占う":   {Reading: "うらなう", Meaning: "To tell fortunes / To predict"},
	"外れる":  {Reading: "はずれる", Meaning: "To miss / To lose (lottery) / To fail"},
	"プレイ":  {Reading: "プレイ", Meaning: "Play (game/sport) / Video Game Play"},
	"部長":   {Reading: "ぶちょう", Meaning: "Club President (School Context)"},
	"お茶":   {Reading: "おちゃ", Meaning: "Tea / (ready to drink)"},
	"入る":   {Reading: "はいる", Meaning: "To enter / To be poured (tea) / To be ready"},
	"王道":   {Reading: "おうどう", Meaning: "The classic way / Royal road / Standard path"},
	"唯":    {Reading: "ゆい", Meaning: "Yui (Character Name)"},
	"ロンドン": {Reading: "ろんどん", Meaning: "London"},
	"ネス湖":  {Reading: "ねすこ", Meaning: "Loch Ness"},
	"皆勤賞":  {Reading: "かいきんしょう", Meaning: "Perfect Attendance Award"},
	"教えの庭": {Reading: "おしえのにわ", Meaning: "Garden of learning / School campus"},

	// gaming and battle: Bakugan, Yu-Gi-Oh!, SK8
	"決闘":   {Reading: "けっとう", Meaning: "Duel"},
	"召喚":   {Reading: "しょうかん", Meaning: "Summon / Summoning (Monster)"},
	"融合":   {Reading: "ゆうごう", Meaning: "Fusion / Polymerization"},
	"術":    {Reading: "じゅつ", Meaning: "Jutsu / Technique / Art"},
	"腕":    {Reading: "うで", Meaning: "Skill / Ability (in games/sports)"},
	"読み":   {Reading: "よみ", Meaning: "Predicting the opponent / Reading the game"},
	"爆":    {Reading: "ばく", Meaning: "Baku (Explosive/Bakugan prefix)"},
	"向く":   {Reading: "むく", Meaning: "To face / To point toward"},
	"仲間":   {Reading: "なかま", Meaning: "Friend / Comrade / Teammate"},
	"愛抱夢":  {Reading: "あだむ", Meaning: "Adam (Antagonist Name)"},
	"あぶねえ": {Reading: "あぶねえ", Meaning: "Dangerous! / Watch out!"},

	// Beastars, Shirokuma Cafe
	"食殺":    {Reading: "しょくさつ", Meaning: "Predation / Meat-eating murder"},
	"隕石祭":   {Reading: "いんせきさい", Meaning: "Meteor Festival"},
	"テム":    {Reading: "てむ", Meaning: "Tem (Character Name)"},
	"笹子":    {Reading: "ささこ", Meaning: "Sasako (Waitress)"},
	"ゾウガメ":  {Reading: "ぞうがめ", Meaning: "Giant Tortoise"},
	"パンダママ": {Reading: "ぱんだまま", Meaning: "Panda-mama"},
	"常勤パンダ": {Reading: "じょうきんぱんだ", Meaning: "Full-time Panda"},

	// WataMote, Saiki K
	"ヘヘ":    {Reading: "へへ", Meaning: "Heh-heh (Awkward laughter)"},
	"おっふ":   {Reading: "おっふ", Meaning: "Offu! (Awestruck sound)"},
	"くだらない": {Reading: "くだらない", Meaning: "Stupid / Worthless / Trivial"},
	"喪女":    {Reading: "もじょ", Meaning: "Mojo (Unpopular woman / Femcel slang)"},
	"もこっち":  {Reading: "もこっち", Meaning: "Mokocchi (Nickname)"},
	"独り言":   {Reading: "ひとりごと", Meaning: "Speaking to oneself / Monologue"},

	// misc
	"さいふ":    {Reading: "さいふ", Meaning: "Wallet / Purse"},
	"チュー":    {Reading: "ちゅう", Meaning: "Kiss (onomatopoeia)"},
	"分":      {Reading: "ぶん", Meaning: "Part / Portion / Amount / Share"},
	"ド":      {Reading: "ド", Meaning: "D (as in Dreadnought) / Super-"},
	"目":      {Reading: "め", Meaning: `Eye / (part of idiom "teach a lesson")`},
	"気を取り直す": {Reading: "きをとりなおす", Meaning: "To pull oneself together / To refresh ones mood"},
	"預かる":    {Reading: "あずかる", Meaning: "To look after / To take care of (luggage, etc.)"},
	"預かっとく":  {Reading: "あずかっとく", Meaning: "I'll look after it (for you)"},
	"モー":     {Reading: "モー", Meaning: `Mo- (part of "Moment")`},
	"メン":     {Reading: "メン", Meaning: `-men (part of "Moment")`},
	"プリー":    {Reading: "プリー", Meaning: `Plea- (part of "Please")`},

	// particles
	"が": {Reading: "が", Meaning: "Subject Marker (Particle)"},
	"は": {Reading: "は", Meaning: "Topic Marker (Particle)"},
	"を": {Reading: "を", Meaning: "Object Marker (Particle)"},

	// names that are also common nouns
	"紬": {Reading: "つむぎ", Meaning: "Tsumugi (Character Name)"},

	"てめえ": {Reading: "てめえ", Meaning: "You (Very rude/aggressive)"},

	// segmentation leftovers
	"メ": {Reading: "め", Meaning: `Part of "Dame" (No) or part of a word`},
	"・": {Reading: "・", Meaning: "(Punctuation / Name separator)"},
	"ヶ": {Reading: "ヶ", Meaning: "(Counter / Place name marker)"},

	"玉": {Reading: "たま", Meaning: "Ball / Coin / Sphere / Attack orb"},
	"弾": {Reading: "たま", Meaning: "Bullet / Blast / Projectile"},
}

// grammarGlosses is the closed list of function words with fixed glosses.
var grammarGlosses = map[string]string{
	"ない":  "Not (Negative / Nonexistent)",
	"する":  "To do / To make",
	"てる":  "is... -ing (Contraction of te-iru)",
	"で":   "At / By / With (Particle)",
	"に":   "To / At (Target Particle)",
	"を":   "Object Marker",
	"は":   "Topic Marker (As for...)",
	"が":   "Subject Marker",
	"の":   "Possessive / Nominalizer (of / 's)",
	"と":   "And / With / Quotation",
	"も":   "Also / Too",
	"へ":   "To (Direction Particle)",
	"から":  "From / Because",
	"けど":  "But / Although",
	"し":   "And / Besides",
	"です":  "To be (Polite Copula)",
	"ます":  "Polite Sentence Ending (Verb Suffix)",
	"だ":   "To be (Plain Copula)",
	"って":  `Topic Marker / Quotation ("You said..")`,
	"て":   "Conjunctive Particle (And then...)",
	"た":   "Past Tense Marker",
	"ね":   "Right? (Sentence Ending)",
	"よ":   "Emphasis (Sentence Ending)",
	"な":   "Don't / Right? (Sentence Ending)",
	"ん":   "Explanation / Emphasis",
	"う":   "Volitional (Let's...)",
	"よう":  "Seem / Like / Way",
	"こと":  "Thing (Intangible) / Nominalizer",
	"もの":  "Thing (Tangible)",
	"この":  "This (Near Speaker)",
	"その":  "That (Near Listener)",
	"あの":  "That (Distant)",
	"どの":  "Which?",
	"これ":  "This one",
	"それ":  "That one",
	"あれ":  "That one over there",
	"どれ":  "Which one?",
	"ここ":  "Here",
	"そこ":  "There",
	"あそこ": "Over there",
	"どこ":  "Where?",
	"ちゃん": "Suffix for familiar names (Cute/Female)",
	"くん":  "Suffix for familiar names (Male)",
	"さん":  "Suffix for names (Mr./Ms.)",
	"ちゃう": "To do completely / Regret (te-shimau)",
	"なきゃ": "Must do (nakereba)",
	"じゃ":  "Well then / To be (de-wa)",
	"たい":  "Want to...",
	"れる":  "Passive / Potential Form",
	"られる": "Passive / Potential Form",
	"させる": "Causative Form",
	"っ":   "Small Tsu (Glottal Stop)",
	"ー":   "Long Vowel Mark",
}

// defaultNames seeds a fresh name map file.
var defaultNames = map[string]string{
	"遊戯": "Yugi", "城之内": "Jonouchi", "海馬": "Kaiba", "本田": "Honda", "杏子": "Anzu",
	"モクバ": "Mokuba", "ペガサス": "Pegasus", "獏良": "Bakura", "マリク": "Marik",
	"サトシ": "Satoshi (Ash)", "カスミ": "Kasumi (Misty)", "タケシ": "Takeshi (Brock)",
	"ピカチュウ": "Pikachu", "ムサシ": "Musashi (Jessie)", "コジロウ": "Kojiro (James)", "ニャース": "Nyarth (Meowth)",
	"ナルト": "Naruto", "サスケ": "Sasuke", "サクラ": "Sakura", "カカシ": "Kakashi",
	"ヒナタ": "Hinata", "シカマル": "Shikamaru", "イノ": "Ino", "チョウジ": "Choji",
	"ゆっこ": "Yukko", "みお": "Mio", "麻衣": "Mai", "はかせ": "Hakase", "なの": "Nano", "阪本": "Sakamoto",
	"唯": "Yui", "澪": "Mio", "律": "Ritsu", "紬": "Tsumugi", "梓": "Azusa", "憂": "Ui", "和": "Nodoka",
	"こなた": "Konata", "かがみ": "Kagami", "つかさ": "Tsukasa", "みゆき": "Miyuki",
	"レゴシ": "Legoshi", "ハル": "Haru", "ルイ": "Louis", "ジュノ": "Juno", "ジャック": "Jack",
	"千代": "Chiyo", "大阪": "Osaka", "智": "Tomo", "暦": "Yomi", "榊": "Sakaki", "神楽": "Kagura",
	"ランガ": "Langa", "レキ": "Reki", "ジョー": "Joe", "チェリー": "Cherry", "愛抱夢": "Adam",
	"あず": "Azu (Azusa)",
}
