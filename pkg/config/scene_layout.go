package config

// 逻辑屏幕尺寸（所有场景坐标基于此尺寸）
const (
	ScreenWidth  = 800
	ScreenHeight = 600
)

// ============================================================
// Welcome 场景
// ============================================================

// WelcomeLogoX, WelcomeLogoY 标志位置
const (
	WelcomeLogoX = 5.0
	WelcomeLogoY = 15.0
)

// WelcomeMenuX 主菜单按钮列 X 坐标
const WelcomeMenuX = 50.0

// WelcomeMenuButtons 主菜单按钮（自上而下），名称同时是 GUI 类别下的贴图前缀
var WelcomeMenuButtons = []string{"Start", "CG", "Settings", "Exit"}

// WelcomeMenuY 主菜单按钮 Y 坐标，与 WelcomeMenuButtons 一一对应
var WelcomeMenuY = []float64{320, 365, 410, 455}

// 音频提示文字中心点
const (
	WelcomeAudioPromptCenterX = ScreenWidth / 2.0
	WelcomeAudioPromptCenterY = ScreenHeight - 50.0
)

// CG 画廊面板（548x383，屏幕居中）
const (
	CGBoardWidth  = 548.0
	CGBoardHeight = 383.0
	CGBoardX      = (ScreenWidth - CGBoardWidth) / 2
	CGBoardY      = (ScreenHeight - CGBoardHeight) / 2

	CGTitleX = (549 - 61) / 2.0
	CGTitleY = 10.0

	CGCloseX = 549 - 25.0
	CGCloseY = 6.0

	CGPrevX   = 30.0
	CGNextX   = 549 - 30 - 104.0
	CGPagingY = 40.0

	// CGViewerCloseX 全屏查看器关闭按钮
	CGViewerCloseX = ScreenWidth - 30.0
	CGViewerCloseY = 10.0
)

// CG 缩略图网格
const (
	CGCount       = 19
	CGColumns     = 4
	CGRows        = 3
	CGPerPage     = CGColumns * CGRows
	CGGridStartX  = 15.0
	CGGridStartY  = 80.0
	CGGridSpacing = 132.0 // 列间距
	CGGridRowStep = 97.0  // 行间距
)

// CGPageCount 缩略图页数
const CGPageCount = (CGCount + CGPerPage - 1) / CGPerPage

// CGThumbPosition 返回第 i 个缩略图（从 0 开始）在面板内的坐标和所在页
func CGThumbPosition(i int) (x, y float64, page int) {
	page = i / CGPerPage
	slot := i % CGPerPage
	col, row := slot%CGColumns, slot/CGColumns
	return CGGridStartX + float64(col)*CGGridSpacing, CGGridStartY + float64(row)*CGGridRowStep, page
}

// 淡入和提示动画时长（帧）
const (
	CGBoardFadeFrames      = 12.0
	AudioPromptPulseFrames = 45.0
)

// ============================================================
// Login（关卡选择）场景
// ============================================================

// LoginTitleX 标题 X 坐标（标题宽 100）
const LoginTitleX = (ScreenWidth - 100) / 2.0

// LoginTitleY 三个标题的 Y 坐标；标题 2 在解锁第 5 关后出现，标题 3 在解锁第 13 关后出现
var LoginTitleY = []float64{30, 190, 405}

// LoginLineX 分隔线 X 坐标（分隔线宽 575）
const LoginLineX = (ScreenWidth - 575) / 2.0

// LoginLineY 分隔线 Y 坐标：前两条出现条件同标题 2、3，最后一条始终显示
var LoginLineY = []float64{145, 350, 500}

// LoginTitleThresholds 标题 2、3 出现所需的最高已解锁关卡下标（从 0 开始，严格大于）
var LoginTitleThresholds = []int{3, 11}

// LoginStageX, LoginStageY 13 个关卡按钮的坐标
var (
	LoginStageX = []float64{220, 310, 400, 490, 140, 225, 310, 395, 480, 565, 175, 420, 330}
	LoginStageY = []float64{95, 95, 95, 95, 250, 250, 250, 250, 250, 250, 310, 310, 455}
)

// 返回按钮（宽 103）
const (
	LoginBackX = (ScreenWidth - 103) / 2.0
	LoginBackY = 520.0
)
