package segment

import (
	"path/filepath"
	"sync"

	"github.com/yanyiwu/gojieba"
)

// JiebaOptions は jieba 辞書の場所
// DictDir が空ならパッケージ同梱の辞書を使う
type JiebaOptions struct {
	DictDir  string
	UserDict string
}

func (o JiebaOptions) paths() []string {
	dict, hmm, user, idf, stop := gojieba.DICT_PATH, gojieba.HMM_PATH, gojieba.USER_DICT_PATH, gojieba.IDF_PATH, gojieba.STOP_WORDS_PATH
	if o.DictDir != "" {
		dict = filepath.Join(o.DictDir, "jieba.dict.utf8")
		hmm = filepath.Join(o.DictDir, "hmm_model.utf8")
		user = filepath.Join(o.DictDir, "user.dict.utf8")
		idf = filepath.Join(o.DictDir, "idf.utf8")
		stop = filepath.Join(o.DictDir, "stop_words.utf8")
	}
	if o.UserDict != "" {
		user = o.UserDict
	}
	return []string{dict, hmm, user, idf, stop}
}

// JiebaSegmenter は gojieba による精確モード（HMM有効）の分かち書き器
// 英数字の連続は1語、空白は区切りとして扱われる
type JiebaSegmenter struct {
	mu sync.Mutex
	x  *gojieba.Jieba
}

// NewJieba は辞書を読み込んで分かち書き器を作成する
func NewJieba(opts JiebaOptions) *JiebaSegmenter {
	return &JiebaSegmenter{x: gojieba.NewJieba(opts.paths()...)}
}

func (s *JiebaSegmenter) Cut(text string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.x == nil {
		return SimpleSegmenter{}.Cut(text)
	}
	return dropBlank(s.x.Cut(text, true))
}

// Close は辞書を解放する。以降の Cut は SimpleSegmenter にフォールバックする
func (s *JiebaSegmenter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.x != nil {
		s.x.Free()
		s.x = nil
	}
}
