package sentiment

var englishIntensifiers = map[string]float64{
	"very":          1.3,
	"really":        1.2,
	"extremely":     1.5,
	"incredibly":    1.4,
	"highly":        1.3,
	"so":            1.2,
	"too":           1.2,
	"quite":         1.1,
	"deeply":        1.3,
	"particularly":  1.2,
	"exceptionally": 1.4,
	"slightly":      0.6,
	"somewhat":      0.7,
	"barely":        0.5,
}

var englishNegations = map[string]struct{}{
	"not":     {},
	"no":      {},
	"never":   {},
	"neither": {},
	"nor":     {},
	"hardly":  {},
	"without": {},
}

var englishWords = map[string]entry{
	// positive
	"good":          {0.7, 0.6},
	"great":         {0.8, 0.75},
	"excellent":     {1.0, 1.0},
	"best":          {1.0, 0.3},
	"better":        {0.5, 0.5},
	"amazing":       {0.6, 0.9},
	"wonderful":     {1.0, 1.0},
	"fantastic":     {0.4, 0.9},
	"positive":      {0.23, 0.55},
	"happy":         {0.8, 1.0},
	"glad":          {0.5, 1.0},
	"successful":    {0.75, 0.95},
	"strong":        {0.43, 0.73},
	"beautiful":     {0.85, 1.0},
	"impressive":    {1.0, 1.0},
	"remarkable":    {0.75, 0.75},
	"hopeful":       {0.5, 0.75},
	"safe":          {0.5, 0.5},
	"healthy":       {0.5, 0.5},
	"effective":     {0.6, 0.8},
	"important":     {0.4, 1.0},
	"significant":   {0.38, 0.88},
	"major":         {0.06, 0.5},
	"popular":       {0.6, 0.8},
	"favorite":      {0.5, 1.0},
	"love":          {0.5, 0.6},
	"loved":         {0.7, 0.8},
	"brilliant":     {0.9, 1.0},
	"clear":         {0.1, 0.38},
	"easy":          {0.43, 0.83},
	"free":          {0.4, 0.8},
	"fair":          {0.7, 0.9},
	"fine":          {0.42, 0.5},
	"nice":          {0.6, 1.0},
	"perfect":       {1.0, 1.0},
	"powerful":      {0.3, 1.0},
	"promising":     {0.5, 0.75},
	"proud":         {0.8, 1.0},
	"rich":          {0.38, 0.75},
	"smart":         {0.21, 0.64},
	"welcome":       {0.8, 0.9},
	"innovative":    {0.5, 0.75},
	"peaceful":      {0.25, 0.5},
	"optimistic":    {0.5, 0.75},
	"encouraging":   {0.5, 0.6},
	"thriving":      {0.6, 0.7},
	"helpful":       {0.5, 0.6},
	"exciting":      {0.3, 0.8},
	"interesting":   {0.5, 0.5},
	"unprecedented": {0.3, 0.6},

	// negative
	"bad":           {-0.7, 0.67},
	"worse":         {-0.4, 0.6},
	"worst":         {-1.0, 1.0},
	"terrible":      {-1.0, 1.0},
	"awful":         {-1.0, 1.0},
	"horrible":      {-1.0, 1.0},
	"poor":          {-0.4, 0.6},
	"sad":           {-0.5, 1.0},
	"angry":         {-0.5, 1.0},
	"negative":      {-0.3, 0.4},
	"dangerous":     {-0.6, 0.9},
	"deadly":        {-0.2, 0.4},
	"violent":       {-0.8, 0.9},
	"wrong":         {-0.5, 0.9},
	"false":         {-0.4, 0.6},
	"weak":          {-0.38, 0.63},
	"difficult":     {-0.5, 1.0},
	"hard":          {-0.29, 0.54},
	"serious":       {-0.33, 0.67},
	"severe":        {0.0, 1.0},
	"harsh":         {-0.33, 0.67},
	"controversial": {-0.1, 0.4},
	"corrupt":       {-0.5, 0.5},
	"disappointing": {-0.6, 0.7},
	"failed":        {-0.5, 0.3},
	"fragile":       {-0.2, 0.6},
	"guilty":        {-0.5, 0.6},
	"hostile":       {-0.6, 0.7},
	"illegal":       {-0.5, 0.5},
	"sick":          {-0.71, 0.86},
	"ugly":          {-0.7, 1.0},
	"unfair":        {-0.5, 0.7},
	"unhappy":       {-0.6, 0.9},
	"unsafe":        {-0.5, 0.5},
	"useless":       {-0.5, 0.2},
	"worried":       {-0.4, 0.7},
	"tragic":        {-0.75, 0.75},
	"devastating":   {-0.7, 0.9},
	"alarming":      {-0.5, 0.8},
	"crisis":        {-0.3, 0.5},
	"chaotic":       {-0.5, 0.7},
	"toxic":         {-0.6, 0.7},
	"outrageous":    {-0.8, 0.9},
	"shocking":      {-1.0, 1.0},
	"catastrophic":  {-0.9, 0.9},
	"grim":          {-0.5, 0.6},
	"bleak":         {-0.5, 0.6},

	// subjective, weakly polar
	"likely":     {0.0, 1.0},
	"possible":   {0.0, 1.0},
	"probably":   {0.0, 0.5},
	"certainly":  {0.21, 0.57},
	"obviously":  {0.0, 0.5},
	"clearly":    {0.1, 0.38},
	"surprising": {0.1, 0.7},
	"strange":    {0.0, 0.15},
	"huge":       {0.4, 0.9},
	"big":        {0.0, 0.1},
	"large":      {0.21, 0.43},
	"small":      {-0.25, 0.4},
	"new":        {0.14, 0.45},
	"old":        {0.1, 0.2},
	"high":       {0.16, 0.54},
	"low":        {0.0, 0.3},
	"many":       {0.5, 0.5},
	"few":        {-0.2, 0.1},
	"long":       {-0.05, 0.4},
	"real":       {0.2, 0.3},
	"true":       {0.35, 0.65},
	"sure":       {0.5, 0.89},
	"main":       {0.17, 0.33},
	"recent":     {0.0, 0.25},
	"early":      {0.1, 0.3},
	"late":       {-0.3, 0.6},
	"only":       {0.0, 1.0},
}
