package game

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

const (
	// SampleRate 音频上下文采样率
	SampleRate = 48000

	// EscapeToneDuration 圆环被击穿时提示音的长度
	EscapeToneDuration = 120 * time.Millisecond

	// escapeBaseFrequency 第 0 层的音高 (A4)
	escapeBaseFrequency = 440.0

	defaultSoundVolume = 0.5
)

// AudioManager 音效管理器
// 职责：
//   - 按层数合成提示音（半音递增，一个八度循环）
//   - 缓存每个音高的播放器
//   - 音量与开关控制
//
// context 为 nil 时所有播放调用直接返回 false（测试和终端前端）。
type AudioManager struct {
	context      *audio.Context
	log          *zap.Logger
	enabled      bool
	volume       float64
	soundPlayers map[int]*audio.Player // 半音档位 -> 播放器
}

// NewAudioManager 创建新的音效管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，可为 nil（静音）
//   - log: 日志器
//
// 返回：
//   - *AudioManager: 音效管理器实例
func NewAudioManager(ctx *audio.Context, log *zap.Logger) *AudioManager {
	return &AudioManager{
		context:      ctx,
		log:          log.Named("Audio"),
		enabled:      true,
		volume:       defaultSoundVolume,
		soundPlayers: make(map[int]*audio.Player),
	}
}

// PlayEscapeTone 播放第 level 层被击穿的提示音
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlayEscapeTone(level int) bool {
	if am.context == nil || !am.enabled {
		return false
	}

	step := semitoneStep(level)
	player, ok := am.soundPlayers[step]
	if !ok {
		pcm := SynthesizeTone(SampleRate, EscapeToneFrequency(level), EscapeToneDuration, 1.0)
		player = am.context.NewPlayerFromBytes(pcm)
		am.soundPlayers[step] = player
		am.log.Debug("tone synthesized",
			zap.Int("step", step),
			zap.Float64("frequency", EscapeToneFrequency(level)))
	}

	player.SetVolume(am.volume)
	if err := player.Rewind(); err != nil {
		am.log.Warn("failed to rewind tone", zap.Int("step", step), zap.Error(err))
	}
	player.Play()
	return true
}

// SetEnabled 打开或关闭音效
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// SetSoundVolume 设置音效音量
// 此方法会影响后续播放的所有音效
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)，超出范围会被截断
func (am *AudioManager) SetSoundVolume(volume float64) {
	am.volume = math.Max(0, math.Min(1, volume))
	for _, player := range am.soundPlayers {
		player.SetVolume(am.volume)
	}
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.volume
}

func semitoneStep(level int) int {
	step := level % 12
	if step < 0 {
		step += 12
	}
	return step
}

// EscapeToneFrequency 第 level 层的提示音频率
// 每层升高一个半音，12 层后回到起点
func EscapeToneFrequency(level int) float64 {
	return escapeBaseFrequency * math.Pow(2, float64(semitoneStep(level))/12)
}

// SynthesizeTone 合成一段带衰减包络的正弦波
//
// 输出为 16 位有符号小端、双声道 PCM，可直接交给 audio.Context.NewPlayerFromBytes。
//
// 参数：
//   - sampleRate: 采样率
//   - frequency: 频率 (Hz)
//   - duration: 时长
//   - volume: 峰值振幅 (0.0 ~ 1.0)
//
// 返回：
//   - []byte: PCM 数据，长度为 采样数 * 4
func SynthesizeTone(sampleRate int, frequency float64, duration time.Duration, volume float64) []byte {
	samples := int(float64(sampleRate) * duration.Seconds())
	if samples <= 0 {
		return nil
	}

	pcm := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(sampleRate)
		// 线性衰减到 0，避免结尾爆音
		envelope := 1 - float64(i)/float64(samples)
		v := math.Sin(2*math.Pi*frequency*t) * envelope * volume
		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(pcm[i*4:], s)
		binary.LittleEndian.PutUint16(pcm[i*4+2:], s)
	}
	return pcm
}
